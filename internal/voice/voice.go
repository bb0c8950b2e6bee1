package voice

import "context"

// Session is the capability set of an external real-time voice call.
// Implementations wrap whatever transport the provider offers; callers
// only see start/stop/mute plus the Events callbacks.
type Session interface {
	Start(ctx context.Context) error
	Stop() error
	SetMuted(muted bool) error
}

// Events receives call lifecycle notifications and finalized utterance
// transcripts. Any callback may be nil.
type Events struct {
	OnCallStart   func()
	OnCallEnd     func()
	OnSpeechStart func()
	OnSpeechEnd   func()
	OnVolume      func(level float64)
	OnTranscript  func(text string)
	OnError       func(err error)
}
