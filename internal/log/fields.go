// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldToolType  = "tool_type"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"
	FieldProgress = "progress"

	// Storage fields
	FieldKey     = "key"
	FieldTTL     = "ttl"
	FieldBackend = "backend"

	// Artifact fields
	FieldPath     = "path"
	FieldFilename = "filename"
	FieldSize     = "size"
)
