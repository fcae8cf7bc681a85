package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseDefaults(t *testing.T) {
	var b Base

	validated, err := b.Validate(context.Background(), ValidateRequest{})
	assert.NoError(t, err)
	assert.True(t, validated.Valid)

	_, err = b.Import(context.Background(), ImportRequest{})
	assert.Error(t, err)
}
