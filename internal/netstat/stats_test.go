package netstat

import (
	"math"
	"testing"
)

func TestVarMeanAndStdDev(t *testing.T) {
	v := NewVar(10)
	for _, s := range []float64{1, 2, 3, 4, 5} {
		v.Record(s)
	}
	if math.Abs(v.Mean()-3) > 1e-9 {
		t.Errorf("expected mean 3, got %f", v.Mean())
	}
	if v.Min() != 1 || v.Max() != 5 {
		t.Errorf("expected min 1 / max 5, got %f / %f", v.Min(), v.Max())
	}
}

func TestVarEvictsOldestBeyondCap(t *testing.T) {
	v := NewVar(3)
	for _, s := range []float64{1, 2, 3, 4} {
		v.Record(s)
	}
	if v.Len() != 3 {
		t.Fatalf("expected capped length 3, got %d", v.Len())
	}
	if v.Min() != 2 {
		t.Errorf("expected oldest sample (1) evicted, min=%f", v.Min())
	}
}

func TestFitWithSlopeRecoversIntercept(t *testing.T) {
	// y = 10 + 1*x exactly; slope pinned at 1 should recover alpha=10.
	xs := []float64{0, 1, 2, 3}
	ys := []float64{10, 11, 12, 13}
	lr := FitWithSlope(1.0, xs, ys)
	if math.Abs(lr.Alpha-10) > 1e-9 {
		t.Errorf("expected alpha=10, got %f", lr.Alpha)
	}
	if math.Abs(lr.At(5)-15) > 1e-9 {
		t.Errorf("expected At(5)=15, got %f", lr.At(5))
	}
}

func TestFitWithSlopeEmptyInput(t *testing.T) {
	lr := FitWithSlope(1.0, nil, nil)
	if lr.Beta != 1.0 || lr.Alpha != 0 {
		t.Errorf("expected zero-value fit for empty input, got %+v", lr)
	}
}
