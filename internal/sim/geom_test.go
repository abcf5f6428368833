package sim

import (
	"math"
	"testing"
)

func TestRectCollisionDetectsOverlap(t *testing.T) {
	a := NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)
	b := NewAaRectCenter(Vector{X: 5, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)

	col, hit := RectCollision(a, b, Vector{})
	if !hit {
		t.Fatal("expected overlapping rects to collide")
	}
	if col.ResolutionVector.Norm() == 0 {
		t.Error("expected a non-zero resolution vector for an overlapping pair")
	}
}

func TestRectCollisionNoOverlapWhenFarApart(t *testing.T) {
	a := NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)
	b := NewAaRectCenter(Vector{X: 1000, Y: 1000}, Vector{X: 10, Y: 10}).Rotate(0)

	if _, hit := RectCollision(a, b, Vector{}); hit {
		t.Error("expected distant rects not to collide")
	}
}

func TestRectCollisionSweepCatchesFastMove(t *testing.T) {
	// a is just to the left of b and would tunnel through it in one tick
	// without the sweep term accounting for `delta`.
	a := NewAaRectCenter(Vector{X: -20, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)
	b := NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)

	if _, hit := RectCollision(a, b, Vector{X: 30, Y: 0}); !hit {
		t.Error("expected a fast sweep through b to register a collision")
	}
}

func TestAaRectContainsPoint(t *testing.T) {
	r := NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 10})
	if !r.ContainsPoint(Vector{X: 0, Y: 0}) {
		t.Error("center point must be contained")
	}
	if r.ContainsPoint(Vector{X: 100, Y: 100}) {
		t.Error("far point must not be contained")
	}
}

func TestRotatedRectContainsPoint(t *testing.T) {
	r := NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 2}).Rotate(math.Pi / 2)
	// After a 90deg rotation the long axis points along Y.
	if !r.ContainsPoint(Vector{X: 0, Y: 4}) {
		t.Error("expected point along rotated long axis to be contained")
	}
	if r.ContainsPoint(Vector{X: 4, Y: 0}) {
		t.Error("expected point along rotated short axis to be outside")
	}
}

func TestCircleContainsPoint(t *testing.T) {
	c := Circle{Center: Vector{X: 0, Y: 0}, Radius: 5}
	if !c.ContainsPoint(Vector{X: 3, Y: 4}) {
		t.Error("point exactly on the radius should be contained")
	}
	if c.ContainsPoint(Vector{X: 10, Y: 0}) {
		t.Error("point outside the radius should not be contained")
	}
}

func TestRayMinIntersectionCircle(t *testing.T) {
	ray := Ray{Origin: Vector{X: -10, Y: 0}, Dir: Vector{X: 20, Y: 0}}
	c := Circle{Center: Vector{X: 0, Y: 0}, Radius: 2}

	tHit, ok := ray.MinIntersection(c.Shape())
	if !ok {
		t.Fatal("expected ray through circle center to intersect")
	}
	if tHit <= 0 || tHit >= 1 {
		t.Errorf("expected intersection parameter within (0,1), got %f", tHit)
	}
}

func TestRayMissesDistantShape(t *testing.T) {
	ray := Ray{Origin: Vector{X: 0, Y: 0}, Dir: Vector{X: 1, Y: 0}}
	c := Circle{Center: Vector{X: 0, Y: 1000}, Radius: 2}

	if _, ok := ray.MinIntersection(c.Shape()); ok {
		t.Error("expected a ray pointing away from the shape not to intersect")
	}
}

func TestVectorReflect(t *testing.T) {
	v := Vector{X: 1, Y: -1}
	axis := Vector{X: 0, Y: 1} // reflect about the horizontal wall normal
	out := v.Reflect(axis)

	if math.Abs(out.X-1) > 1e-9 || math.Abs(out.Y-1) > 1e-9 {
		t.Errorf("expected (1,-1) reflected about (0,1) to be (1,1), got %+v", out)
	}
}
