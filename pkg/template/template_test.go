package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars Vars
		want string
	}{
		{"member", "Welcome {member}!", Vars{Member: "Alice"}, "Welcome Alice!"},
		{"no placeholder", "Welcome to the server!", Vars{Member: "Alice"}, "Welcome to the server!"},
		{"unknown placeholder kept", "Hi {member}, see {rules}", Vars{Member: "Bob"}, "Hi Bob, see {rules}"},
		{"repeated", "{member} {member}", Vars{Member: "x"}, "x x"},
		{"two vars", "{member} warned: {reason}", Vars{Member: "Eve", Reason: "spam"}, "Eve warned: spam"},
		{"no vars", "Hi {member}", nil, "Hi {member}"},
		{"value with braces is not re-expanded", "{member}", Vars{Member: "{reason}", Reason: "nope"}, "{reason}"},
		{"unbalanced braces", "Hi {member", Vars{Member: "x"}, "Hi {member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.tpl, tt.vars))
		})
	}
}

func TestRenderOr(t *testing.T) {
	assert.Equal(t, "👋 Welcome Alice!", RenderOr("", "👋 Welcome {member}!", Vars{Member: "Alice"}))
	assert.Equal(t, "Hey Alice", RenderOr("Hey {member}", "👋 Welcome {member}!", Vars{Member: "Alice"}))
}
