// Package netstat implements the three online estimators the network
// layer runs continuously: round-trip ping time, server receive-time
// (for the client's playback clock, spec.md §4.4), and packet loss.
// All three are pure, allocation-light sliding-window statistics
// ported from original_source/comn/src/util/{stats,ping,game_time,loss}.rs.
package netstat

import "math"

// Var is a capped sliding window of float samples with running
// mean/stddev/min/max, mirroring stats.rs's Var.
type Var struct {
	samples    []float64
	maxSamples int
}

func NewVar(maxSamples int) *Var {
	return &Var{maxSamples: maxSamples}
}

func (v *Var) Record(sample float64) {
	v.samples = append(v.samples, sample)
	if len(v.samples) > v.maxSamples {
		v.samples = v.samples[len(v.samples)-v.maxSamples:]
	}
}

func (v *Var) Len() int { return len(v.samples) }

func (v *Var) Mean() float64 { return mean(v.samples) }

func (v *Var) StdDev() float64 { return stdDev(v.samples) }

func (v *Var) Min() float64 {
	if len(v.samples) == 0 {
		return 0
	}
	m := v.samples[0]
	for _, s := range v.samples[1:] {
		if s < m {
			m = s
		}
	}
	return m
}

func (v *Var) Max() float64 {
	if len(v.samples) == 0 {
		return 0
	}
	m := v.samples[0]
	for _, s := range v.samples[1:] {
		if s > m {
			m = s
		}
	}
	return m
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

func stdDev(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	m := mean(samples)
	var sq float64
	for _, s := range samples {
		d := s - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(samples)))
}

// LinearRegression is a fitted line y = alpha + beta*x.
type LinearRegression struct {
	Alpha float64
	Beta  float64
}

// FitWithSlope fits the intercept of a regression whose slope is held
// fixed at beta — used by the receive-time estimator, which assumes
// server time advances at exactly the same rate as local wall-clock
// time (beta=1) and only estimates the offset between them.
func FitWithSlope(beta float64, xs, ys []float64) LinearRegression {
	if len(xs) == 0 {
		return LinearRegression{Beta: beta}
	}
	var sum float64
	for i := range xs {
		sum += ys[i] - beta*xs[i]
	}
	return LinearRegression{Alpha: sum / float64(len(xs)), Beta: beta}
}

func (lr LinearRegression) At(x float64) float64 { return lr.Alpha + lr.Beta*x }
