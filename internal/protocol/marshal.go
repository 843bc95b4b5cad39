package protocol

import (
	"encoding/json"
	"fmt"
)

// ValidationError reports a malformed inbound payload. Handlers that see
// one must leave prior state unchanged.
type ValidationError struct {
	Event  EventType
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Event, e.Reason)
}

// NewValidationError creates a validation error for the given event.
func NewValidationError(event EventType, format string, args ...any) *ValidationError {
	return &ValidationError{Event: event, Reason: fmt.Sprintf(format, args...)}
}

// NewMessage creates a message with the given event and marshaled payload.
func NewMessage(event EventType, data any) (*Message, error) {
	if data == nil {
		return &Message{Event: event}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return &Message{Event: event, Data: raw}, nil
}

// DecodeMessage parses a raw frame into a message envelope.
func DecodeMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if msg.Event == "" {
		return nil, fmt.Errorf("decode message: missing event")
	}
	return &msg, nil
}

// Decode unmarshals the payload into dst, converting unmarshal failures
// into ValidationErrors so the session can reject without crashing.
func (m *Message) Decode(dst any) error {
	if err := json.Unmarshal(m.Data, dst); err != nil {
		return NewValidationError(m.Event, "%v", err)
	}
	return nil
}

// ValidateTable checks the structural invariants of a single table.
func ValidateTable(event EventType, table *Table) error {
	if table == nil {
		return NewValidationError(event, "missing table")
	}
	if table.ID <= 0 {
		return NewValidationError(event, "table missing id")
	}
	if table.Seats == nil {
		return NewValidationError(event, "table %d has no seat map", table.ID)
	}
	return nil
}

// ValidateTables checks every table in a directory snapshot. Directory
// keys must agree with the table ids they point at.
func ValidateTables(event EventType, tables Tables) error {
	for id, table := range tables {
		if err := ValidateTable(event, table); err != nil {
			return err
		}
		if table.ID != id {
			return NewValidationError(event, "table %d keyed as %d", table.ID, id)
		}
	}
	return nil
}
