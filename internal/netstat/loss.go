package netstat

// NumKeepDuration bounds how many recent sequence numbers the loss
// estimator remembers — older ones age out regardless of whether a
// gap around them was ever filled in.
const NumKeepDuration = 100

// LossEstimation estimates the fraction of packets lost in the recent
// window by comparing how many distinct sequence numbers were actually
// seen against the span implied by the min/max seen so far, ported
// from original_source/comn/src/util/loss.rs.
type LossEstimation struct {
	seen map[uint64]struct{}
	min  uint64
	max  uint64
	has  bool
}

func NewLossEstimation() *LossEstimation {
	return &LossEstimation{seen: make(map[uint64]struct{})}
}

// RecordSequenceNum records that seq was received, evicting sequence
// numbers that have fallen out of the NumKeepDuration window.
func (l *LossEstimation) RecordSequenceNum(seq uint64) {
	l.seen[seq] = struct{}{}
	if !l.has || seq > l.max {
		l.max = seq
	}
	if !l.has || seq < l.min {
		l.min = seq
	}
	l.has = true

	if l.max-l.min+1 > NumKeepDuration {
		cutoff := l.max - NumKeepDuration + 1
		for s := range l.seen {
			if s < cutoff {
				delete(l.seen, s)
			}
		}
		l.min = cutoff
	}
}

// Loss returns the estimated fraction of packets lost in [min, max]:
// 1 - |seen| / (max - min + 1).
func (l *LossEstimation) Loss() float64 {
	if !l.has {
		return 0
	}
	span := float64(l.max-l.min) + 1
	return 1 - float64(len(l.seen))/span
}
