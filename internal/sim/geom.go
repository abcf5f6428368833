package sim

import (
	"math"
	"sort"
)

// Shape is the union of oriented-rectangle and circle shapes used by
// collision resolution, hook-attach ray tests, and point containment.
type Shape struct {
	IsCircle bool
	Rect     Rect
	Circle   Circle
}

func (s Shape) ContainsPoint(p Vector) bool {
	if s.IsCircle {
		return s.Circle.ContainsPoint(p)
	}
	return s.Rect.ContainsPoint(p)
}

// AaRect is an axis-aligned rectangle given by its top-left corner and size.
type AaRect struct {
	TopLeft Vector
	Size    Vector
}

func NewAaRectCenter(center, size Vector) AaRect {
	return AaRect{TopLeft: center.Sub(size.Scale(0.5)), Size: size}
}

func (r AaRect) Center() Vector {
	return r.TopLeft.Add(r.Size.Scale(0.5))
}

func (r AaRect) ContainsPoint(p Vector) bool {
	return p.X >= r.TopLeft.X && p.Y >= r.TopLeft.Y &&
		p.X <= r.TopLeft.X+r.Size.X && p.Y <= r.TopLeft.Y+r.Size.Y
}

// Rotate returns the oriented rectangle obtained by rotating r about its
// center by angle radians.
func (r AaRect) Rotate(angle float64) Rect {
	c, s := math.Cos(angle), math.Sin(angle)
	return Rect{
		Center: r.Center(),
		Size:   r.Size,
		Angle:  angle,
		XEdge:  Vector{r.Size.X * c, r.Size.X * s},
		YEdge:  Vector{-r.Size.Y * s, r.Size.Y * c},
	}
}

func (r AaRect) ToRect() Rect {
	return Rect{
		Center: r.Center(),
		Size:   r.Size,
		Angle:  0,
		XEdge:  Vector{r.Size.X, 0},
		YEdge:  Vector{0, r.Size.Y},
	}
}

// Rect is an oriented rectangle represented by its center and two
// full-length edge vectors, mirroring geom.rs's representation so that
// the SAT routine below ports directly.
type Rect struct {
	Center Vector
	Size   Vector
	Angle  float64
	XEdge  Vector
	YEdge  Vector
}

func (r Rect) Shape() Shape { return Shape{Rect: r} }

func (r Rect) iterPoints() [4]Vector {
	hx, hy := r.XEdge.Scale(0.5), r.YEdge.Scale(0.5)
	return [4]Vector{
		r.Center.Sub(hx).Sub(hy),
		r.Center.Add(hx).Sub(hy),
		r.Center.Sub(hx).Add(hy),
		r.Center.Add(hx).Add(hy),
	}
}

type axisProjection struct {
	Min, Max float64
}

func (a axisProjection) intervalDistance(b axisProjection) float64 {
	if a.Min < b.Min {
		return b.Min - a.Max
	}
	return a.Min - b.Max
}

func (r Rect) projectToEdge(edge Vector) axisProjection {
	pts := r.iterPoints()
	min, max := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := edge.Dot(p)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return axisProjection{Min: min, Max: max}
}

func (r Rect) ContainsPoint(p Vector) bool {
	// Solve center - p = [XEdge YEdge] * (u,v) for (u,v), via 2x2 inverse.
	a, b, c, d := r.XEdge.X, r.YEdge.X, r.XEdge.Y, r.YEdge.Y
	det := a*d - b*c
	if det == 0 {
		return false
	}
	rx, ry := r.Center.X-p.X, r.Center.Y-p.Y
	u := (d*rx - b*ry) / det
	v := (-c*rx + a*ry) / det
	return u >= -0.5 && u <= 0.5 && v >= -0.5 && v <= 0.5
}

// Collision is the result of a separating-axis test: the minimum
// translation vector to push `a` out of `b`, and the axis it was found on.
type Collision struct {
	ResolutionVector Vector
	Axis             Vector
}

// RectCollision runs the separating axis theorem between two oriented
// rectangles, accounting for a's tentative movement `delta` over the step
// (a sweep test), and returns the minimum-translation-vector collision if
// the rectangles intersect or will intersect after the move.
func RectCollision(a, b Rect, delta Vector) (Collision, bool) {
	edges := [8]Vector{
		a.XEdge, a.YEdge, b.XEdge, b.YEdge,
		a.XEdge.Scale(-1), a.YEdge.Scale(-1), b.XEdge.Scale(-1), b.YEdge.Scale(-1),
	}

	intersecting := true
	willIntersect := true
	minIntervalDistance := math.Inf(1)
	translationAxis := Vector{}

	for _, edge := range edges {
		axis := Vector{-edge.Y, edge.X}.Normalize()

		aProjection := a.projectToEdge(axis)
		bProjection := b.projectToEdge(axis)

		if aProjection.intervalDistance(bProjection) > 0 {
			intersecting = false
		}

		deltaProjection := axis.Dot(delta)
		if deltaProjection < 0 {
			aProjection.Min += deltaProjection
		} else {
			aProjection.Max += deltaProjection
		}

		intervalDistance := aProjection.intervalDistance(bProjection)
		if intervalDistance > 0 {
			willIntersect = false
		}

		if !intersecting && !willIntersect {
			return Collision{}, false
		}

		absDist := math.Abs(intervalDistance)
		if absDist < minIntervalDistance {
			minIntervalDistance = absDist
			if a.Center.Sub(b.Center).Dot(axis) < 0 {
				translationAxis = axis.Scale(-1)
			} else {
				translationAxis = axis
			}
		}
	}

	if !willIntersect {
		return Collision{}, false
	}

	return Collision{
		ResolutionVector: translationAxis.Scale(minIntervalDistance),
		Axis:             translationAxis,
	}, true
}

// Circle is used for turrets and bullet/food proximity checks.
type Circle struct {
	Center Vector
	Radius float64
}

func (c Circle) Shape() Shape { return Shape{IsCircle: true, Circle: c} }

func (c Circle) ContainsPoint(p Vector) bool {
	return c.Center.Sub(p).NormSquared() <= c.Radius*c.Radius
}

// Ray is a line segment origin -> origin+dir, used for hook-attach tests
// and turret line-of-sight.
type Ray struct {
	Origin Vector
	Dir    Vector
}

// Intersections returns the parametric intersection distances (t, where
// the hit point is Origin + t*Dir) of the ray with shape, sorted ascending.
// Only rectangle shapes are tested against all four edges; circles use the
// standard quadratic solve.
func (ray Ray) Intersections(shape Shape) []float64 {
	if shape.IsCircle {
		return ray.intersectCircle(shape.Circle)
	}
	return ray.intersectRect(shape.Rect)
}

func (ray Ray) intersectCircle(c Circle) []float64 {
	oc := ray.Origin.Sub(c.Center)
	a := ray.Dir.Dot(ray.Dir)
	if a == 0 {
		return nil
	}
	b := 2 * oc.Dot(ray.Dir)
	cc := oc.Dot(oc) - c.Radius*c.Radius
	disc := b*b - 4*a*cc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	var out []float64
	for _, t := range []float64{t1, t2} {
		if t >= 0 {
			out = append(out, t)
		}
	}
	return out
}

func segmentIntersect(p0, p1, q0, q1 Vector) (float64, bool) {
	r := p1.Sub(p0)
	s := q1.Sub(q0)
	rxs := r.X*s.Y - r.Y*s.X
	if rxs == 0 {
		return 0, false
	}
	qp := q0.Sub(p0)
	t := (qp.X*s.Y - qp.Y*s.X) / rxs
	u := (qp.X*r.Y - qp.Y*r.X) / rxs
	if t >= 0 && u >= 0 && u <= 1 {
		return t, true
	}
	return 0, false
}

func (ray Ray) intersectRect(r Rect) []float64 {
	pts := r.iterPoints()
	// Rectangle corners ordered (--, +-, -+, ++); edges connect them as a quad.
	edges := [4][2]Vector{
		{pts[0], pts[1]},
		{pts[1], pts[3]},
		{pts[3], pts[2]},
		{pts[2], pts[0]},
	}
	var out []float64
	for _, e := range edges {
		if t, ok := segmentIntersect(ray.Origin, ray.Origin.Add(ray.Dir), e[0], e[1]); ok {
			out = append(out, t)
		}
	}
	sort.Float64s(out)
	return out
}

// MinIntersection returns the smallest t <= 1 among the ray's
// intersections with shape, matching the hook-attach "earliest t <= 1" rule.
func (ray Ray) MinIntersection(shape Shape) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, t := range ray.Intersections(shape) {
		if t <= 1.0 && t < best {
			best = t
			found = true
		}
	}
	return best, found
}
