package usecase

import (
	"context"
	"errors"
	"sync"
)

var ErrRenderInProgress = errors.New("render already in progress")

type GateState int

const (
	GateIdle GateState = iota
	GateRendering
	GateFailed
)

func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "idle"
	case GateRendering:
		return "rendering"
	case GateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate admits one render at a time: Idle -> Rendering -> Idle | Failed.
// Every successful Begin or Acquire must be paired with End.
type Gate struct {
	sem chan struct{}

	mu    sync.Mutex
	state GateState
	err   error
}

func NewGate() *Gate {
	return &Gate{sem: make(chan struct{}, 1)}
}

// Begin enters Rendering or fails with ErrRenderInProgress.
func (g *Gate) Begin() error {
	select {
	case g.sem <- struct{}{}:
		g.set(GateRendering, nil)
		return nil
	default:
		return ErrRenderInProgress
	}
}

// Acquire waits for the gate instead of rejecting.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.sem <- struct{}{}:
		g.set(GateRendering, nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// End leaves Rendering. A non-nil err moves the gate to Failed, which still
// admits the next render.
func (g *Gate) End(err error) {
	if err != nil {
		g.set(GateFailed, err)
	} else {
		g.set(GateIdle, nil)
	}
	<-g.sem
}

func (g *Gate) set(s GateState, err error) {
	g.mu.Lock()
	g.state, g.err = s, err
	g.mu.Unlock()
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err is the failure that moved the gate to Failed, if any.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
