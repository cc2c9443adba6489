package setup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHostLabel(t *testing.T) {
	tests := []struct {
		label   string
		wantErr bool
	}{
		{"alpha-chat", false},
		{"team01-n8n", false},
		{"-chat", true},
		{"alpha-", true},
		{"Alpha-chat", true},
		{"al pha-chat", true},
		{"", true},
		{strings.Repeat("a", 64), true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			err := ValidateHostLabel(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLabelProblems(t *testing.T) {
	good := Inputs{Team: "alpha", Domain: "example.com"}
	assert.Empty(t, good.LabelProblems())

	bad := Inputs{Team: "", Domain: "example.com"}
	assert.Len(t, bad.LabelProblems(), 9)
}
