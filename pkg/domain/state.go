package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// State is the explicit value bag owned by an Active Session.
// Step builders receive it by reference and hand it to the handlers they bind,
// so nothing about a page lives in package-level variables.
// State is not safe for concurrent use; the sequencer serializes access.
type State struct {
	values map[string]any
}

// NewState creates an empty state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// NewStateFrom creates a state seeded with a copy of values.
func NewStateFrom(values map[string]any) *State {
	st := NewState()
	for k, v := range values {
		st.values[k] = v
	}
	return st
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *State) Set(key string, value any) {
	s.values[key] = value
}

// Delete removes key.
func (s *State) Delete(key string) {
	delete(s.values, key)
}

// String returns the value under key formatted as a string, or "" when absent.
func (s *State) String(key string) string {
	v, ok := s.values[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Values returns a shallow copy of the stored values.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Decode maps the stored values onto out, which must be a pointer to a struct or map.
// Field names are matched using "mapstructure" tags, with weak typing so that
// values coming back from JSON stores (float64, strings) still fit int fields.
func (s *State) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create state decoder: %w", err)
	}
	if err := dec.Decode(s.values); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	return nil
}
