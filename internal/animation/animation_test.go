package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by step on every reading.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func steppedAnimator(step time.Duration) *Animator {
	a := NewAnimator(1500*time.Millisecond, time.Millisecond)
	a.now = (&stepClock{t: time.Unix(0, 0), step: step}).Now
	return a
}

func TestValue(t *testing.T) {
	d := 1500 * time.Millisecond
	assert.Equal(t, 43, Value(750*time.Millisecond, d, 87))
	assert.Equal(t, 0, Value(0, d, 87))
	assert.Equal(t, 0, Value(-time.Second, d, 87))
	assert.Equal(t, 87, Value(d, d, 87))
	assert.Equal(t, 87, Value(10*time.Second, d, 87))
	assert.Equal(t, 58, Value(1000*time.Millisecond, d, 87))
	assert.Equal(t, 60, Value(time.Second, 0, 60))
}

func TestProgress(t *testing.T) {
	d := 1500 * time.Millisecond
	assert.Equal(t, 0.5, Progress(750*time.Millisecond, d))
	assert.Equal(t, 1.0, Progress(3*time.Second, d))
	assert.Equal(t, 0.0, Progress(-time.Millisecond, d))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 100, Clamp(140))
	assert.Equal(t, 87, Clamp(87))
}

func TestState_MonotonicAndBounded(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewState(87, start, 1500*time.Millisecond)

	prev := -1
	for ms := 0; ms <= 2000; ms += 7 {
		s.Advance(start.Add(time.Duration(ms) * time.Millisecond))
		assert.GreaterOrEqual(t, s.Displayed, prev)
		assert.LessOrEqual(t, s.Displayed, 87)
		prev = s.Displayed
	}
	assert.True(t, s.Done())
	assert.Equal(t, 87, s.Displayed)
}

func TestState_HalfwaySample(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewState(87, start, 1500*time.Millisecond)

	s.Advance(start.Add(700 * time.Millisecond))
	before := s.Displayed
	s.Advance(start.Add(750 * time.Millisecond))

	assert.Equal(t, 43, s.Displayed)
	assert.Greater(t, s.Displayed, before)
}

func TestState_Restart(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewState(90, start, time.Second)
	s.Advance(start.Add(800 * time.Millisecond))
	require.Equal(t, 72, s.Displayed)

	restart := start.Add(900 * time.Millisecond)
	s.Restart(40, restart)
	assert.Equal(t, 0, s.Displayed)
	assert.Equal(t, 40, s.Target)
	assert.Equal(t, restart, s.Start)
	assert.False(t, s.Done())

	s.Advance(restart.Add(500 * time.Millisecond))
	assert.Equal(t, 20, s.Displayed)
}

func TestAnimator_Run(t *testing.T) {
	a := steppedAnimator(250 * time.Millisecond)

	var frames []int
	err := a.Run(context.Background(), 87, func(v int) { frames = append(frames, v) })
	require.NoError(t, err)
	assert.Equal(t, []int{14, 29, 43, 58, 72, 87}, frames)
}

func TestAnimator_RunClampsTarget(t *testing.T) {
	a := steppedAnimator(time.Second)
	var last int
	require.NoError(t, a.Run(context.Background(), 250, func(v int) { last = v }))
	assert.Equal(t, MaxScore, last)
}

func TestAnimator_RunCancelled(t *testing.T) {
	a := steppedAnimator(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := a.Run(ctx, 87, func(int) {
		calls++
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestAnimator_RunScoresIndependent(t *testing.T) {
	a := steppedAnimator(100 * time.Millisecond)

	var mu sync.Mutex
	seen := map[string][]int{}
	err := a.RunScores(context.Background(), map[string]int{"clarity": 87, "keyword": 60}, func(name string, v int) {
		mu.Lock()
		defer mu.Unlock()
		seen[name] = append(seen[name], v)
	})
	require.NoError(t, err)

	want := map[string]int{"clarity": 87, "keyword": 60}
	for name, target := range want {
		vals := seen[name]
		require.NotEmpty(t, vals, name)
		assert.Equal(t, target, vals[len(vals)-1], name)
		for i := 1; i < len(vals); i++ {
			assert.GreaterOrEqual(t, vals[i], vals[i-1], name)
			assert.LessOrEqual(t, vals[i], target, name)
		}
	}
}

func TestPlayer_RestartDropsPreviousRun(t *testing.T) {
	p := NewPlayer(NewAnimator(10*time.Second, time.Millisecond))

	var mu sync.Mutex
	var first []int
	started := make(chan struct{})
	var once sync.Once
	errc1 := p.Play(context.Background(), map[string]int{"clarity": 90}, func(_ string, v int) {
		mu.Lock()
		first = append(first, v)
		mu.Unlock()
		once.Do(func() { close(started) })
	})
	<-started

	p.a.Duration = 20 * time.Millisecond
	var second []int
	errc2 := p.Play(context.Background(), map[string]int{"clarity": 40}, func(_ string, v int) {
		mu.Lock()
		second = append(second, v)
		mu.Unlock()
	})

	assert.ErrorIs(t, <-errc1, context.Canceled)
	mu.Lock()
	firstLen := len(first)
	mu.Unlock()

	require.NoError(t, <-errc2)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, firstLen, len(first))
	require.NotEmpty(t, second)
	assert.Equal(t, 40, second[len(second)-1])
}

func TestPlayer_Stop(t *testing.T) {
	p := NewPlayer(NewAnimator(10*time.Second, time.Millisecond))
	errc := p.Play(context.Background(), map[string]int{"keyword": 60}, func(string, int) {})
	p.Stop()
	assert.ErrorIs(t, <-errc, context.Canceled)

	p.Stop()
}
