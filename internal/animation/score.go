// Package animation interpolates displayed scores from zero to a target over
// a fixed wall-clock duration, sampled once per frame.
package animation

import "time"

const (
	DefaultDuration = 1500 * time.Millisecond
	DefaultFrame    = 16 * time.Millisecond
	MaxScore        = 100
)

// Clamp bounds a target score to 0..MaxScore.
func Clamp(target int) int {
	switch {
	case target < 0:
		return 0
	case target > MaxScore:
		return MaxScore
	}
	return target
}

// Progress is min(elapsed/duration, 1), never negative.
func Progress(elapsed, duration time.Duration) float64 {
	switch {
	case duration <= 0 || elapsed >= duration:
		return 1
	case elapsed <= 0:
		return 0
	}
	return float64(elapsed) / float64(duration)
}

// Value is floor(Progress(elapsed, duration) * target), computed in integer
// arithmetic so exact fractions do not round down a step early.
func Value(elapsed, duration time.Duration, target int) int {
	switch {
	case duration <= 0 || elapsed >= duration:
		return target
	case elapsed <= 0:
		return 0
	}
	return int(int64(elapsed) * int64(target) / int64(duration))
}

// State is one score's animation cursor.
type State struct {
	Displayed int
	Target    int
	Start     time.Time
	Duration  time.Duration
	done      bool
}

func NewState(target int, start time.Time, d time.Duration) State {
	return State{Target: Clamp(target), Start: start, Duration: d}
}

// Advance samples the animation at now and reports whether it has finished.
// Displayed never decreases, even if now goes backwards.
func (s *State) Advance(now time.Time) bool {
	if s.done {
		return true
	}
	elapsed := now.Sub(s.Start)
	if v := Value(elapsed, s.Duration, s.Target); v > s.Displayed {
		s.Displayed = v
	}
	s.done = Progress(elapsed, s.Duration) >= 1
	return s.done
}

// Restart drops the previous target and starts again from zero.
func (s *State) Restart(target int, now time.Time) {
	*s = NewState(target, now, s.Duration)
}

func (s *State) Done() bool { return s.done }
