package voice

import (
	"context"
	"errors"
	"testing"
)

type fakeSession struct {
	started int
	stopped int
	muted   []bool
	fail    bool
}

func (f *fakeSession) Start(ctx context.Context) error {
	if f.fail {
		return errors.New("provider unavailable")
	}
	f.started++
	return nil
}

func (f *fakeSession) Stop() error {
	f.stopped++
	return nil
}

func (f *fakeSession) SetMuted(muted bool) error {
	if f.fail {
		return errors.New("provider unavailable")
	}
	f.muted = append(f.muted, muted)
	return nil
}

func TestController_Lifecycle(t *testing.T) {
	fs := &fakeSession{}
	c := NewController(fs)

	if c.Active() {
		t.Fatalf("must start inactive")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !c.Active() || c.Muted() {
		t.Fatalf("expected active and unmuted")
	}
	if err := c.Start(context.Background()); err == nil {
		t.Fatalf("double start must fail")
	}

	if err := c.ToggleMute(); err != nil {
		t.Fatalf("mute: %v", err)
	}
	if !c.Muted() {
		t.Fatalf("expected muted")
	}
	if err := c.ToggleMute(); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	if c.Muted() {
		t.Fatalf("expected unmuted")
	}
	if got := fs.muted; len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("mute sequence wrong: %v", got)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if c.Active() {
		t.Fatalf("expected inactive after stop")
	}
	// Stopping twice is a no-op.
	if err := c.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if fs.stopped != 1 {
		t.Fatalf("provider stop called %d times", fs.stopped)
	}
}

func TestController_FailuresLeaveStateUntouched(t *testing.T) {
	fs := &fakeSession{fail: true}
	c := NewController(fs)

	if err := c.Start(context.Background()); err == nil {
		t.Fatalf("start must surface provider error")
	}
	if c.Active() {
		t.Fatalf("failed start must leave controller inactive")
	}

	if err := c.ToggleMute(); err == nil {
		t.Fatalf("mute without a call must fail")
	}

	fs.fail = false
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	fs.fail = true
	if err := c.ToggleMute(); err == nil {
		t.Fatalf("mute must surface provider error")
	}
	if c.Muted() {
		t.Fatalf("failed mute must not flip the flag")
	}
}
