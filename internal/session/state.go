// SPDX-License-Identifier: MIT

package session

import (
	"encoding/json"
	"fmt"
)

// State represents the lifecycle state of a processing job.
//
// State provides type safety for job state management, preventing
// string-based typos and enabling exhaustive switch statements.
type State string

// Job state constants define all possible states of a processing job.
const (
	// StateQueued indicates the upload is stored but processing has not started.
	StateQueued State = "queued"

	// StateProcessing indicates the transform is currently executing.
	StateProcessing State = "processing"

	// StateCompleted indicates the transform finished and an output artifact exists.
	StateCompleted State = "completed"

	// StateFailed indicates the job encountered an error and terminated.
	StateFailed State = "failed"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid checks whether the state is one of the defined constants.
func (s State) IsValid() bool {
	switch s {
	case StateQueued, StateProcessing, StateCompleted, StateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal checks whether the state represents a final state.
//
// A job in a terminal state never transitions again; status polls return the
// same terminal record until the session expires.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransitionTo checks whether this state may transition to the target.
//
// Valid transitions:
//   - Queued → Processing, Failed
//   - Processing → Completed, Failed
//   - Terminal states cannot transition
func (s State) CanTransitionTo(target State) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StateQueued:
		return target == StateProcessing || target == StateFailed
	case StateProcessing:
		return target == StateCompleted || target == StateFailed
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler for State.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler for State.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	state := State(str)
	if !state.IsValid() {
		return fmt.Errorf("invalid job state: %q", str)
	}
	*s = state
	return nil
}
