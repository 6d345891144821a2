package editorconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInjection(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		wantProperty   bool
		wantProperties bool
	}{
		{"nothing defined", "function check() { return []; }", true, true},
		{"function declaration", "function hidePropertyIn(g, k) { return g; }", false, true},
		{"assignment", "const hidePropertiesIn = (g, ks) => g;", true, false},
		{"both defined", "var hidePropertyIn = 1; function hidePropertiesIn(g) {}", false, false},
		{"comparison is not a definition", "if (hidePropertyIn == null) {}", true, true},
		{"call is not a definition", "return hidePropertyIn(groups, 'a');", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			injection := BuildInjection(tt.source)
			assert.Equal(t, tt.wantProperty, strings.Contains(injection, "function hidePropertyIn("))
			assert.Equal(t, tt.wantProperties, strings.Contains(injection, "function hidePropertiesIn("))
			assert.Equal(t, !tt.wantProperty, Defines(tt.source, "hidePropertyIn"))
		})
	}

	assert.False(t, Defines("anything", "unknownHelper"))
}
