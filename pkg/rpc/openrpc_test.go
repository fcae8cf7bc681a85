package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentListsAllSixMethods(t *testing.T) {
	doc := NewDocument("demo", "1.0.0")
	assert.Equal(t, "demo", doc.Info.Title)
	assert.Len(t, doc.Methods, 6)

	names := make(map[string]bool)
	for _, m := range doc.Methods {
		names[m.Name] = true
	}
	for _, want := range []string{"metadata", "capabilities", "plan", "apply", "validate", "import"} {
		assert.True(t, names[want], "missing method %s", want)
	}
}
