package models

import (
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"time"
)

const eventIDPrefix = "event"

const (
	EventTypeUsage = "usage"
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Data      any       `json:"data"`
}

func NewUsageEvent(usage *Usage) *Event {
	return newEvent(EventTypeUsage, *usage)
}

func newEvent(eventType string, payload any) *Event {
	return &Event{
		ID:        fmt.Sprintf("%s-%s", eventIDPrefix, uuid.NewString()),
		Type:      eventType,
		CreatedAt: time.Now(),
		Data:      payload,
	}
}

func DeserializeEvent(data []byte) (*Event, error) {
	var raw struct {
		ID        string          `json:"id"`
		Type      string          `json:"type"`
		CreatedAt time.Time       `json:"created_at"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	event := &Event{
		ID:        raw.ID,
		Type:      raw.Type,
		CreatedAt: raw.CreatedAt,
	}

	switch raw.Type {
	case EventTypeUsage:
		var payload Usage
		if err := json.Unmarshal(raw.Data, &payload); err != nil {
			return nil, err
		}
		event.Data = payload
	default:
		return nil, fmt.Errorf("unknown event type, %s", raw.Type)
	}

	return event, nil
}

func (e *Event) Serialize() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) Labels() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"event_type": e.Type,
	}
}
