package recommend

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/wonny/cinemood/internal/contracts"
)

// MoodTable maps a normalized mood to the genre tags it selects.
// Immutable once built; safe for concurrent readers.
// ⭐ SSOT: 무드 → 장르 매핑은 여기서만
type MoodTable struct {
	moods map[string][]string
	hash  string
}

// moodFile is the YAML layout of a mood table file
//
//	moods:
//	  calm: [Drama, Romance]
//	  fun: [Comedy]
type moodFile struct {
	Moods map[string][]string `yaml:"moods"`
}

// DefaultMoods returns the built-in mood table entries
func DefaultMoods() map[string][]string {
	return map[string][]string{
		"calm":    {"Drama", "Romance"},
		"fun":     {"Comedy"},
		"intense": {"Action", "Thriller"},
		"sad":     {"Drama"},
		"inspire": {"Adventure", "Animation"},
	}
}

// DefaultMoodTable returns the built-in table
func DefaultMoodTable() *MoodTable {
	t, err := NewMoodTable(DefaultMoods(), "default")
	if err != nil {
		panic(err) // built-in table is always valid
	}
	return t
}

// NewMoodTable validates and copies moods
func NewMoodTable(moods map[string][]string, source string) (*MoodTable, error) {
	if len(moods) == 0 {
		return nil, contracts.NewValidationError(source, "moods", "at least one mood is required")
	}

	copied := make(map[string][]string, len(moods))
	for mood, tags := range moods {
		field := "moods." + mood
		if mood == "" {
			return nil, contracts.NewValidationError(source, "moods", "mood name must not be empty")
		}
		if NormalizeMood(mood) != mood {
			return nil, contracts.NewValidationError(source, field, "mood name must be lower-case without surrounding spaces")
		}
		if len(tags) == 0 {
			return nil, contracts.NewValidationError(source, field, "at least one genre tag is required")
		}
		for _, tag := range tags {
			if strings.TrimSpace(tag) == "" {
				return nil, contracts.NewValidationError(source, field, "genre tag must not be empty")
			}
		}
		copied[mood] = append([]string(nil), tags...)
	}

	hash, err := hashMoods(copied)
	if err != nil {
		return nil, err
	}

	return &MoodTable{moods: copied, hash: hash}, nil
}

// LoadMoodTable reads a YAML mood table file
// KnownFields(true): 오타/미사용 필드 즉시 실패
func LoadMoodTable(path string) (*MoodTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, contracts.NewValidationError(path, "", "file not found")
		}
		return nil, fmt.Errorf("read mood table: %w", err)
	}
	return ParseMoodTable(data, path)
}

// ParseMoodTable decodes a YAML mood table
func ParseMoodTable(data []byte, source string) (*MoodTable, error) {
	var f moodFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, contracts.NewValidationError(source, "", "empty mood table")
		}
		return nil, contracts.NewValidationError(source, "", err.Error())
	}

	return NewMoodTable(f.Moods, source)
}

// NormalizeMood lower-cases and trims a mood
func NormalizeMood(mood string) string {
	return strings.ToLower(strings.TrimSpace(mood))
}

// Resolve normalizes mood and returns its genre tags.
// Unknown moods resolve to an empty (non-nil) tag list and ok=false.
func (t *MoodTable) Resolve(mood string) (normalized string, genres []string, ok bool) {
	normalized = NormalizeMood(mood)
	tags, ok := t.moods[normalized]
	if !ok {
		return normalized, []string{}, false
	}
	return normalized, append([]string(nil), tags...), true
}

// Names returns the known moods sorted alphabetically
func (t *MoodTable) Names() []string {
	names := make([]string, 0, len(t.moods))
	for mood := range t.moods {
		names = append(names, mood)
	}
	sort.Strings(names)
	return names
}

// Moods returns a copy of the table
func (t *MoodTable) Moods() map[string][]string {
	out := make(map[string][]string, len(t.moods))
	for mood, tags := range t.moods {
		out[mood] = append([]string(nil), tags...)
	}
	return out
}

// Hash identifies the table contents (SHA256 of canonical JSON).
// Used to namespace cached responses.
func (t *MoodTable) Hash() string {
	return t.hash
}

func hashMoods(moods map[string][]string) (string, error) {
	// map 키는 정렬되어 인코딩되므로 결정적
	data, err := json.Marshal(moods)
	if err != nil {
		return "", fmt.Errorf("hash mood table: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
