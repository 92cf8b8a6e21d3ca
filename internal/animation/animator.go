package animation

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Animator drives a State with a frame ticker.
type Animator struct {
	Duration time.Duration
	Frame    time.Duration

	now func() time.Time
}

// NewAnimator falls back to the defaults for non-positive arguments.
func NewAnimator(duration, frame time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Animator{Duration: duration, Frame: frame, now: time.Now}
}

// Run calls onFrame with the displayed value once per frame until the target
// is reached. The last call always carries the exact target. A cancelled ctx
// stops the loop without further calls and returns ctx.Err().
func (a *Animator) Run(ctx context.Context, target int, onFrame func(value int)) error {
	s := NewState(target, a.now(), a.Duration)
	t := time.NewTicker(a.Frame)
	defer t.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done := s.Advance(a.now())
		onFrame(s.Displayed)
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// RunScores animates every named target independently and concurrently.
// onFrame may be called from several goroutines at once.
func (a *Animator) RunScores(ctx context.Context, targets map[string]int, onFrame func(name string, value int)) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, target := range targets {
		g.Go(func() error {
			return a.Run(ctx, target, func(v int) { onFrame(name, v) })
		})
	}
	return g.Wait()
}

// Player owns at most one running animation. Play cancels the previous run
// and waits for it to stop before starting, so old and new targets never
// interleave.
type Player struct {
	a *Animator

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPlayer(a *Animator) *Player {
	return &Player{a: a}
}

// Play starts animating targets. The returned channel yields the run's result
// once it ends.
func (p *Player) Play(ctx context.Context, targets map[string]int, onFrame func(name string, value int)) <-chan error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	errc := make(chan error, 1)
	p.cancel, p.done = cancel, done

	go func() {
		defer close(done)
		defer cancel()
		errc <- p.a.RunScores(ctx, targets, onFrame)
	}()
	return errc
}

// Stop cancels the running animation, if any, and waits for it to return.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}
