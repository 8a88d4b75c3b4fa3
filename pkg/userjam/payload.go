package userjam

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type EventType string

const (
	EventTypeTrack    EventType = "track"
	EventTypeIdentify EventType = "identify"
)

// Properties is optional metadata attached to a tracked event.
type Properties map[string]interface{}

// Traits describe a user, e.g. name or email.
type Traits map[string]interface{}

// Payload is the JSON body of a report request.
type Payload struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	Timestamp string    `json:"timestamp"`

	// Event and Properties are only sent for track payloads
	Event      string     `json:"event,omitempty"`
	Properties Properties `json:"properties,omitempty"`

	// Traits are only sent for identify payloads
	Traits Traits `json:"traits,omitempty"`
}

type trackBody struct {
	Type       EventType   `json:"type"`
	UserID     string      `json:"userId"`
	Timestamp  string      `json:"timestamp"`
	Event      string      `json:"event"`
	Properties *Properties `json:"properties,omitempty"`
}

type identifyBody struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	Timestamp string    `json:"timestamp"`
	Traits    *Traits   `json:"traits,omitempty"`
}

// MarshalJSON leaves out properties or traits only when they are nil, an empty
// map is still sent as {}.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case EventTypeTrack:
		body := trackBody{
			Type:      p.Type,
			UserID:    p.UserID,
			Timestamp: p.Timestamp,
			Event:     p.Event,
		}
		if p.Properties != nil {
			body.Properties = &p.Properties
		}
		return json.Marshal(body)
	case EventTypeIdentify:
		body := identifyBody{
			Type:      p.Type,
			UserID:    p.UserID,
			Timestamp: p.Timestamp,
		}
		if p.Traits != nil {
			body.Traits = &p.Traits
		}
		return json.Marshal(body)
	}

	return nil, errors.Errorf("unknown payload type %q", p.Type)
}

// FormatTimestamp renders t the way the report endpoint expects it, ISO-8601 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func newTrackPayload(now time.Time, userID, event string, properties Properties) Payload {
	return Payload{
		Type:       EventTypeTrack,
		UserID:     userID,
		Timestamp:  FormatTimestamp(now),
		Event:      event,
		Properties: properties,
	}
}

func newIdentifyPayload(now time.Time, userID string, traits Traits) Payload {
	return Payload{
		Type:      EventTypeIdentify,
		UserID:    userID,
		Timestamp: FormatTimestamp(now),
		Traits:    traits,
	}
}
