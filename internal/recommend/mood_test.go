package recommend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
)

func TestDefaultMoodTable(t *testing.T) {
	table := DefaultMoodTable()

	assert.Equal(t, []string{"calm", "fun", "inspire", "intense", "sad"}, table.Names())

	tests := []struct {
		input      string
		normalized string
		genres     []string
		known      bool
	}{
		{"calm", "calm", []string{"Drama", "Romance"}, true},
		{"Fun ", "fun", []string{"Comedy"}, true},
		{"  INTENSE", "intense", []string{"Action", "Thriller"}, true},
		{"sad", "sad", []string{"Drama"}, true},
		{"Inspire", "inspire", []string{"Adventure", "Animation"}, true},
		{"melancholy", "melancholy", []string{}, false},
		{"", "", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			normalized, genres, known := table.Resolve(tt.input)
			assert.Equal(t, tt.normalized, normalized)
			assert.Equal(t, tt.genres, genres)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestMoodTable_Immutable(t *testing.T) {
	table := DefaultMoodTable()

	_, genres, _ := table.Resolve("calm")
	genres[0] = "Horror"
	table.Moods()["calm"][0] = "Horror"

	_, again, _ := table.Resolve("calm")
	assert.Equal(t, []string{"Drama", "Romance"}, again)
}

func TestMoodTable_Hash(t *testing.T) {
	a := DefaultMoodTable()
	b := DefaultMoodTable()
	assert.Len(t, a.Hash(), 64)
	assert.Equal(t, a.Hash(), b.Hash(), "hash is deterministic")

	other, err := NewMoodTable(map[string][]string{"cozy": {"Animation"}}, "test")
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), other.Hash())
}

func TestParseMoodTable(t *testing.T) {
	data := []byte(`
moods:
  cozy: [Animation, Children]
  spooky: [Horror]
`)
	table, err := ParseMoodTable(data, "moods.yaml")
	require.NoError(t, err)

	_, genres, known := table.Resolve("Spooky")
	assert.True(t, known)
	assert.Equal(t, []string{"Horror"}, genres)

	_, _, known = table.Resolve("calm")
	assert.False(t, known, "a file replaces the default table")
}

func TestParseMoodTable_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"unknown field", "moods:\n  fun: [Comedy]\nextra: 1\n", ""},
		{"empty document", "", ""},
		{"no moods", "moods: {}\n", "moods"},
		{"upper-case mood", "moods:\n  Fun: [Comedy]\n", "moods.Fun"},
		{"no tags", "moods:\n  fun: []\n", "moods.fun"},
		{"blank tag", "moods:\n  fun: [Comedy, \" \"]\n", "moods.fun"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMoodTable([]byte(tt.data), "moods.yaml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrValidation))

			var verr *contracts.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadMoodTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moods.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moods:\n  fun: [Comedy, Animation]\n"), 0o644))

	table, err := LoadMoodTable(path)
	require.NoError(t, err)
	_, genres, _ := table.Resolve("fun")
	assert.Equal(t, []string{"Comedy", "Animation"}, genres)

	_, err = LoadMoodTable(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}
