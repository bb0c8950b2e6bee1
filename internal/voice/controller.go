package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrCallActive rejects a second Start while a call is running.
	ErrCallActive = errors.New("call already active")
	// ErrNoCall rejects control actions without a running call.
	ErrNoCall = errors.New("no active call")
)

// Controller tracks the lifecycle of one onboarding call on top of a
// Session. It mirrors the call state the UI needs (active, muted) and
// keeps the two flags consistent with what was actually sent to the
// provider.
type Controller struct {
	session Session

	mu     sync.Mutex
	active bool
	muted  bool
}

func NewController(session Session) *Controller {
	return &Controller{session: session}
}

func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return ErrCallActive
	}
	if err := c.session.Start(ctx); err != nil {
		return fmt.Errorf("start call: %w", err)
	}
	c.active = true
	c.muted = false
	return nil
}

func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	if err := c.session.Stop(); err != nil {
		return fmt.Errorf("stop call: %w", err)
	}
	c.active = false
	return nil
}

// ToggleMute flips the microphone state. The flag only changes when the
// provider accepted the request.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return ErrNoCall
	}
	if err := c.session.SetMuted(!c.muted); err != nil {
		return fmt.Errorf("set muted: %w", err)
	}
	c.muted = !c.muted
	return nil
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}
