package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var bfePattern = regexp.MustCompile(`(?i)bfe.*nummer`)

func TestFindFieldString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   map[string]any
		want  string
		found bool
	}{
		{
			name:  "top level key",
			doc:   map[string]any{"bfeNummer": float64(401337)},
			want:  "401337",
			found: true,
		},
		{
			name:  "case variant",
			doc:   map[string]any{"BFENUMMER": "401337"},
			want:  "401337",
			found: true,
		},
		{
			name: "nested one level down",
			doc: map[string]any{
				"adgangsadresse": map[string]any{"bfenummer": float64(99)},
			},
			want:  "99",
			found: true,
		},
		{
			name: "coded value wrapper prefers kode",
			doc: map[string]any{
				"jordstykkeBfeNummer": map[string]any{"kode": float64(7)},
			},
			want:  "7",
			found: true,
		},
		{
			name:  "missing",
			doc:   map[string]any{"vejnavn": "Havnegade"},
			found: false,
		},
		{
			name:  "null value",
			doc:   map[string]any{"bfeNummer": nil},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, found := FindFieldString(tt.doc, bfePattern)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindFieldBreadthBeforeDepth(t *testing.T) {
	t.Parallel()

	// A direct key on the current level wins over a nested match.
	doc := map[string]any{
		"bfeNummer": "direct",
		"nested":    map[string]any{"bfeNummer": "deep"},
	}

	got, found := FindFieldString(doc, bfePattern)
	assert.True(t, found)
	assert.Equal(t, "direct", got)
}

func TestFindFieldTieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	// Two matches on the same level resolve lexicographically, run after
	// run.
	doc := map[string]any{
		"jordstykkeBfeNummer": "second",
		"bfeNummer":           "first",
	}

	for range 20 {
		got, found := FindFieldString(doc, bfePattern)
		assert.True(t, found)
		assert.Equal(t, "first", got)
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12", Stringify(float64(12)))
	assert.Equal(t, "12.5", Stringify(12.5))
	assert.Equal(t, "tag", Stringify("tag"))
	assert.Equal(t, "", Stringify(nil))
}
