// Package model defines the core domain types shared by the board and the activities API.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Activity is a named event with a schedule, a capacity and its registered participants.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// SpotsLeft returns capacity minus current participant count.
// The result is not clamped and goes negative for an over-subscribed activity.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull returns true when no spots remain.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether email is registered.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// NamedActivity pairs an activity with its unique name.
type NamedActivity struct {
	Name string `yaml:"name"`
	Activity `yaml:",inline"`
}

// Snapshot is the full name -> activity mapping in the order the backend sent it.
// It encodes to and decodes from a JSON object while keeping key order.
type Snapshot []NamedActivity

// Get returns the activity registered under name.
func (s Snapshot) Get(name string) (Activity, bool) {
	for _, na := range s {
		if na.Name == name {
			return na.Activity, true
		}
	}
	return Activity{}, false
}

// Names returns activity names in snapshot order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for _, na := range s {
		names = append(names, na.Name)
	}
	return names
}

// MarshalJSON writes the snapshot as a JSON object in slice order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, na := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(na.Name)
		if err != nil {
			return nil, err
		}
		act := na.Activity
		if act.Participants == nil {
			act.Participants = []string{}
		}
		val, err := json.Marshal(act)
		if err != nil {
			return nil, fmt.Errorf("marshal activity %q: %w", na.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping its key order.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = Snapshot{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("activities snapshot: expected JSON object")
	}

	out := Snapshot{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("activities snapshot: unexpected key %v", tok)
		}
		var act Activity
		if err := dec.Decode(&act); err != nil {
			return fmt.Errorf("activity %q: %w", name, err)
		}
		if act.Participants == nil {
			act.Participants = []string{}
		}
		// A repeated name keeps its first position and takes the last value.
		if i, ok := index[name]; ok {
			out[i].Activity = act
			continue
		}
		index[name] = len(out)
		out = append(out, NamedActivity{Name: name, Activity: act})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MessageKind styles a status message.
type MessageKind string

const (
	KindSuccess MessageKind = "success"
	KindError   MessageKind = "error"
)

// StatusMessage is the transient feedback shown after a mutation attempt.
type StatusMessage struct {
	Text      string
	Kind      MessageKind
	Visible   bool
	ExpiresAt time.Time
}

// MessageResponse is the success body of a mutation endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body of a mutation endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
