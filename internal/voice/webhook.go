package voice

import (
	"encoding/json"
	"fmt"
)

// Event types delivered by the voice provider.
const (
	EventCallStart   = "call-start"
	EventCallEnd     = "call-end"
	EventSpeechStart = "speech-start"
	EventSpeechEnd   = "speech-end"
	EventVolumeLevel = "volume-level"
	EventTranscript  = "transcript"
)

// TranscriptFinal marks an utterance the provider considers complete.
// Partial transcripts are delivered too but never reach extraction.
const TranscriptFinal = "final"

// WebhookEvent is the provider's wire format for call events.
type WebhookEvent struct {
	Type           string  `json:"type"`
	Transcript     string  `json:"transcript,omitempty"`
	TranscriptType string  `json:"transcriptType,omitempty"`
	Level          float64 `json:"level,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Dispatcher decodes provider events and fans them out to Events
// callbacks. It is the server-side counterpart of Session: instead of
// the app driving a call, the provider pushes events at us.
type Dispatcher struct {
	events Events
}

func NewDispatcher(events Events) *Dispatcher {
	return &Dispatcher{events: events}
}

// DispatchJSON decodes one event payload and routes it. Unknown event
// types are ignored so provider additions stay non-breaking.
func (d *Dispatcher) DispatchJSON(payload []byte) error {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode voice event: %w", err)
	}
	d.Dispatch(ev)
	return nil
}

func (d *Dispatcher) Dispatch(ev WebhookEvent) {
	switch ev.Type {
	case EventCallStart:
		if d.events.OnCallStart != nil {
			d.events.OnCallStart()
		}
	case EventCallEnd:
		if d.events.OnCallEnd != nil {
			d.events.OnCallEnd()
		}
	case EventSpeechStart:
		if d.events.OnSpeechStart != nil {
			d.events.OnSpeechStart()
		}
	case EventSpeechEnd:
		if d.events.OnSpeechEnd != nil {
			d.events.OnSpeechEnd()
		}
	case EventVolumeLevel:
		if d.events.OnVolume != nil {
			d.events.OnVolume(ev.Level)
		}
	case EventTranscript:
		if ev.TranscriptType == TranscriptFinal && d.events.OnTranscript != nil {
			d.events.OnTranscript(ev.Transcript)
		}
	default:
		if ev.Error != "" && d.events.OnError != nil {
			d.events.OnError(fmt.Errorf("voice provider error: %s", ev.Error))
		}
	}
}
