// SPDX-License-Identifier: MIT

package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_CanTransitionTo(t *testing.T) {
	all := []State{StateQueued, StateProcessing, StateCompleted, StateFailed}

	tests := []struct {
		from    State
		allowed []State
	}{
		{StateQueued, []State{StateProcessing, StateFailed}},
		{StateProcessing, []State{StateCompleted, StateFailed}},
		{StateCompleted, nil},
		{StateFailed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			for _, target := range all {
				want := false
				for _, a := range tt.allowed {
					if a == target {
						want = true
					}
				}
				assert.Equal(t, want, tt.from.CanTransitionTo(target),
					"%s -> %s", tt.from, target)
			}
		})
	}
}

func TestState_IsTerminal(t *testing.T) {
	assert.False(t, StateQueued.IsTerminal())
	assert.False(t, StateProcessing.IsTerminal())
	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
}

func TestState_UnmarshalRejectsUnknown(t *testing.T) {
	var s State
	err := json.Unmarshal([]byte(`"cancelled"`), &s)
	require.Error(t, err)

	require.NoError(t, json.Unmarshal([]byte(`"processing"`), &s))
	assert.Equal(t, StateProcessing, s)
}
