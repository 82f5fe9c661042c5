package textline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Document
	}{
		{
			name: "trims and drops blanks",
			raw:  []string{"  Loading  ", "", "   ", "\tON:\t", "ACME LTD"},
			want: Document{"Loading", "ON:", "ACME LTD"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: Document{},
		},
		{
			name: "all blank",
			raw:  []string{"", "  ", "\t"},
			want: Document{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeCompactsIndices(t *testing.T) {
	doc := Normalize([]string{"a", "", "b", "", "", "c"})
	require.Len(t, doc, 3)
	// Anchor arithmetic relies on survivors being adjacent.
	assert.Equal(t, "b", doc.At(1))
	assert.Equal(t, "c", doc.At(2))
}

func TestDocumentAt(t *testing.T) {
	doc := Document{"one", "two"}
	assert.Equal(t, "one", doc.At(0))
	assert.Equal(t, "", doc.At(-1))
	assert.Equal(t, "", doc.At(2))
}

func TestDocumentFind(t *testing.T) {
	doc := Document{"header", "REF.: AB123", "Loading", "REF.: CD456"}

	assert.Equal(t, 1, doc.Find(func(l string) bool { return strings.HasPrefix(l, "REF.") }))
	assert.Equal(t, 3, doc.FindFrom(2, func(l string) bool { return strings.HasPrefix(l, "REF.") }))
	assert.Equal(t, 2, doc.FindExact("Loading"))
	assert.Equal(t, -1, doc.FindExact("Delivery"))
	assert.Equal(t, 1, doc.FindContaining("AB123"))
	assert.Equal(t, 1, doc.FindFrom(-5, func(l string) bool { return strings.Contains(l, "REF") }))
}

func TestWindowEnd(t *testing.T) {
	doc := Document{"a", "b", "c"}
	assert.Equal(t, 3, doc.WindowEnd(0, 10))
	assert.Equal(t, 2, doc.WindowEnd(0, 2))
	assert.Equal(t, 3, doc.WindowEnd(2, 15))
}
