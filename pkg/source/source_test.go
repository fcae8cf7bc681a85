package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	s, err := Parse("github:acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "acme", s.Owner)
	assert.Equal(t, "widget", s.Repo)
	assert.Empty(t, s.Subdir)
	assert.Equal(t, "acme/widget", s.RepoSlug())
}

func TestParseWithSubdir(t *testing.T) {
	s, err := Parse("github:acme/widget//providers/linux")
	require.NoError(t, err)
	assert.Equal(t, "providers/linux", s.Subdir)
	assert.Equal(t, "github:acme/widget//providers/linux", s.String())
}

func TestParseWithEmptySubdirIsTreatedAsNone(t *testing.T) {
	s, err := Parse("github:acme/widget//   ")
	require.NoError(t, err)
	assert.Empty(t, s.Subdir)
}

func TestParseRejectsMissingPrefix(t *testing.T) {
	_, err := Parse("acme/widget")
	assert.Error(t, err)
}

func TestParseRejectsMissingSlash(t *testing.T) {
	_, err := Parse("github:acmewidget")
	assert.Error(t, err)
}

func TestParseRejectsEmptyOwnerOrRepo(t *testing.T) {
	_, err := Parse("github:/widget")
	assert.Error(t, err)

	_, err = Parse("github:acme/")
	assert.Error(t, err)
}

func TestDeriveReleaseTagStripsLeadingV(t *testing.T) {
	tag, err := DeriveReleaseTag("widget", "v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "widget-v1.2.3", tag)
}

func TestDeriveReleaseTagWithoutLeadingV(t *testing.T) {
	tag, err := DeriveReleaseTag("widget", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "widget-v1.2.3", tag)
}

func TestDeriveReleaseTagRejectsEmpty(t *testing.T) {
	_, err := DeriveReleaseTag("", "1.0.0")
	assert.Error(t, err)

	_, err = DeriveReleaseTag("widget", "")
	assert.Error(t, err)
}
