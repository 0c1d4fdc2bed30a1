package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `{"userId":"u-42","signupAt":"2025-06-20T00:00:00Z"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	p, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "u-42", p.UserID)
	require.True(t, p.SignupAt.Valid)
	expected, _ := time.Parse(time.RFC3339, "2025-06-20T00:00:00Z")
	assert.Equal(t, expected.Unix(), p.SignupAt.Unix)
}

func TestLoadEpochSignup(t *testing.T) {
	dir := t.TempDir()
	content := `{"userId":"u-1","signupAt":1750377600}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	p, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.True(t, p.SignupAt.Valid)
	assert.Equal(t, int64(1750377600), p.SignupAt.Unix)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	p, err := Load(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{not json`), 0644))

	p, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestLoadUnparsableSignupDegrades(t *testing.T) {
	dir := t.TempDir()
	content := `{"userId":"u-1","signupAt":"someday"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	p, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "u-1", p.UserID)
	assert.False(t, p.SignupAt.Valid)
}
