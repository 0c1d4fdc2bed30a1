package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSONL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeJSONL(t, t.TempDir(), "scale.jsonl",
		`{"id":"m1","measuredAt":"2025-06-28T08:00:00Z","weightKg":80.5}
{"id":"m2","measuredAt":1751140800,"weightKg":80.1,"bodyFatPct":22.3}
`)

	p := NewParser(1)
	measurements, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, measurements, 2)

	assert.Equal(t, "m1", measurements[0].ID)
	assert.Equal(t, 80.5, measurements[0].WeightKg)
	assert.True(t, measurements[0].MeasuredAt.Valid)

	assert.Equal(t, "m2", measurements[1].ID)
	assert.Equal(t, int64(1751140800), measurements[1].MeasuredAt.Unix)
	require.NotNil(t, measurements[1].BodyFatPct)
	assert.Equal(t, 22.3, *measurements[1].BodyFatPct)
}

func TestParseFileDropsBadLines(t *testing.T) {
	path := writeJSONL(t, t.TempDir(), "scale.jsonl",
		`{"id":"m1","measuredAt":"2025-06-28T08:00:00Z","weightKg":80.5}
not json at all

{"id":"no-ts","weightKg":70.0}
{"id":"bad-ts","measuredAt":"yesterday","weightKg":70.0}
{"id":"m2","measuredAt":"2025-06-29T08:00:00Z","weightKg":80.1}
`)

	p := NewParser(1)
	measurements, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, measurements, 2)
	assert.Equal(t, "m1", measurements[0].ID)
	assert.Equal(t, "m2", measurements[1].ID)
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(1)
	_, err := p.ParseFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestParseFileCachesResult(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONL(t, dir, "scale.jsonl",
		`{"id":"m1","measuredAt":"2025-06-28T08:00:00Z","weightKg":80.5}
`)

	p := NewParser(1)
	first, err := p.ParseFile(path)
	require.NoError(t, err)

	// Removing the file does not invalidate the in-process cache.
	require.NoError(t, os.Remove(path))
	second, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseFilesConcurrent(t *testing.T) {
	dir := t.TempDir()
	var files []string
	files = append(files, writeJSONL(t, dir, "a.jsonl",
		`{"id":"a1","measuredAt":"2025-06-28T08:00:00Z","weightKg":80.5}
`))
	files = append(files, writeJSONL(t, dir, "b.jsonl",
		`{"id":"b1","measuredAt":"2025-06-29T08:00:00Z","weightKg":80.1}
{"id":"b2","measuredAt":"2025-06-29T20:00:00Z","weightKg":79.8}
`))
	files = append(files, filepath.Join(dir, "missing.jsonl"))

	p := NewParser(2)
	counts := make(map[string]int)
	errs := 0
	for result := range p.ParseFiles(files) {
		if result.Error != nil {
			errs++
			continue
		}
		counts[filepath.Base(result.File)] = len(result.Measurements)
	}

	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, counts["a.jsonl"])
	assert.Equal(t, 2, counts["b.jsonl"])
}
