package netstat

import (
	"testing"
	"time"
)

func TestPingEstimationConvergesTowardsSample(t *testing.T) {
	p := NewPingEstimation()
	now := time.Unix(0, 0)

	for i := 0; i < 200; i++ {
		if p.ShouldSend(now) {
			p.Send(now, uint64(i))
			p.HandlePong(now, uint64(i))
		}
		now = now.Add(PingPeriod)
	}

	got := p.Estimate()
	if got < 0 || got > 2*InitialEstimate {
		t.Errorf("expected estimate to stay bounded near a zero round-trip sample, got %v", got)
	}
}

func TestPingEstimationIgnoresStalePong(t *testing.T) {
	p := NewPingEstimation()
	now := time.Unix(0, 0)

	p.Send(now, 5)
	before := p.Estimate()
	p.HandlePong(now.Add(time.Second), 3) // older than the outstanding seq
	if p.Estimate() != before {
		t.Errorf("expected stale pong to be ignored, estimate changed from %v to %v", before, p.Estimate())
	}
}

func TestPingEstimationShouldSendRespectsPeriod(t *testing.T) {
	p := NewPingEstimation()
	now := time.Unix(0, 0)

	if !p.ShouldSend(now) {
		t.Fatal("expected ShouldSend to be true before any ping has been sent")
	}
	p.Send(now, 1)
	if p.ShouldSend(now.Add(100 * time.Millisecond)) {
		t.Error("expected ShouldSend false shortly after sending, before PingPeriod elapses")
	}
	if !p.ShouldSend(now.Add(PingPeriod)) {
		t.Error("expected ShouldSend true once PingPeriod has elapsed")
	}
}

func TestPingEstimationTimesOutWithoutPong(t *testing.T) {
	p := NewPingEstimation()
	now := time.Unix(0, 0)
	p.Send(now, 1)

	if p.TimedOut(now.Add(PingTimeout - time.Second)) {
		t.Error("expected not timed out just before the timeout window elapses")
	}
	if !p.TimedOut(now.Add(PingTimeout + time.Second)) {
		t.Error("expected timed out once the timeout window has elapsed with no pong")
	}
}

func TestPingEstimationNotTimedOutAfterPong(t *testing.T) {
	p := NewPingEstimation()
	now := time.Unix(0, 0)
	p.Send(now, 1)
	p.HandlePong(now.Add(10*time.Millisecond), 1)

	if p.TimedOut(now.Add(PingTimeout + time.Second)) {
		t.Error("expected a successfully ponged session not to be reported as timed out")
	}
}
