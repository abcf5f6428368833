package netstat

import (
	"math"
	"testing"
)

func TestLossEstimationNoLossWhenContiguous(t *testing.T) {
	l := NewLossEstimation()
	for seq := uint64(1); seq <= 10; seq++ {
		l.RecordSequenceNum(seq)
	}
	if loss := l.Loss(); loss != 0 {
		t.Errorf("expected 0 loss for a contiguous run, got %f", loss)
	}
}

func TestLossEstimationDetectsGaps(t *testing.T) {
	l := NewLossEstimation()
	for _, seq := range []uint64{1, 2, 4, 5} { // 3 missing
		l.RecordSequenceNum(seq)
	}
	loss := l.Loss()
	if loss <= 0 {
		t.Errorf("expected positive loss with a gap in the sequence, got %f", loss)
	}
	// span is 5 (1..5), 4 seen -> loss = 1 - 4/5 = 0.2
	if want := 0.2; math.Abs(loss-want) > 1e-9 {
		t.Errorf("expected loss %f, got %f", want, loss)
	}
}

func TestLossEstimationEmptyIsZero(t *testing.T) {
	l := NewLossEstimation()
	if l.Loss() != 0 {
		t.Errorf("expected 0 loss with no samples, got %f", l.Loss())
	}
}

func TestLossEstimationEvictsBeyondWindow(t *testing.T) {
	l := NewLossEstimation()
	for seq := uint64(1); seq <= NumKeepDuration+50; seq++ {
		l.RecordSequenceNum(seq)
	}
	if l.min < (NumKeepDuration+50)-NumKeepDuration+1 {
		t.Errorf("expected old sequence numbers to have been evicted, min=%d", l.min)
	}
}
