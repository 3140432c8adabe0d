package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "recstore_roundtrip")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "test.txt")

	o := record.New()
	o.Add("Country", "Great Britain")
	o.Add("Capital", "London")

	s := New()
	require.NoError(t, s.Insert("Country1", o))
	require.NoError(t, s.Insert("Country2", o))
	require.NoError(t, s.Insert("Country3", o))

	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	rec, err := loaded.Get("Country3")
	require.NoError(t, err)
	capital, err := rec.Get("Capital")
	require.NoError(t, err)
	assert.Equal(t, "London", capital)

	assert.Equal(t, s.RecordIDs(), loaded.RecordIDs())
	for _, id := range s.RecordIDs() {
		want, _ := s.Get(id)
		got, _ := loaded.Get(id)
		assert.True(t, want.Equal(got), "record %s differs", id)
	}

	// The loaded store is independent of the original
	loaded.Remove("Country1")
	assert.True(t, s.Contains("Country1"))
}

func TestStore_SaveFormat(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert("b", countryRecord("France", "Paris")))
	require.NoError(t, s.Insert("a", countryRecord("Great Britain", "London")))

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf, codec.Options{}))

	expected := strings.Join([]string{
		"#Scheme",
		`"Capital"`,
		`"Country"`,
		"#a",
		`"London"`,
		`"Great Britain"`,
		"#b",
		`"Paris"`,
		`"France"`,
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestStore_SaveEmptyTruncates(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "store.txt")

	require.NoError(t, os.WriteFile(path, []byte("old contents\n"), 0600))
	require.NoError(t, New().Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.txt")

	s := New()
	require.NoError(t, s.Insert("a", countryRecord("x", "y")))
	require.NoError(t, s.Insert("b", countryRecord("x", "y")))
	require.NoError(t, s.Save(path))

	s.Remove("a")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, loaded.RecordIDs())
}

func TestStore_SaveStrictRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.txt")

	s := New()
	require.NoError(t, s.Insert("a", record.FromMap(map[string]string{"quote": `has "quotes"`})))

	err := s.SaveWithOptions(path, codec.Options{Strict: true})
	assert.True(t, errors.Is(err, ErrUnencodable))
	assert.NoFileExists(t, path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{
			name:    "last record has fewer values than fields",
			content: "#Scheme\n\"Country\"\n\"Capital\"\n#c1\n\"GB\"\n\"London\"\n#c2\n\"FR\"\n",
			target:  ErrMalformedFile,
		},
		{
			name:    "missing delimiter",
			content: "#Scheme\n\"Country\n",
			target:  ErrMalformedFile,
		},
		{
			name:    "reserved record id",
			content: "#Scheme\n\"a\"\n#Scheme\n\"1\"\n",
			target:  ErrReservedKey,
		},
		{
			name:    "duplicate record id",
			content: "#Scheme\n\"a\"\n#r\n\"1\"\n#r\n\"2\"\n",
			target:  ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			s, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Nil(t, s, "failed load must not expose a partial store")
		})
	}
}

func TestDecode_DuplicateFieldNames(t *testing.T) {
	// A repeated field name collapses into one field; the later value wins.
	input := "#Scheme\n\"a\"\n\"a\"\n#r1\n\"1\"\n\"2\"\n"
	s, err := Decode(strings.NewReader(input), codec.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s.Schema())

	rec, err := s.Get("r1")
	require.NoError(t, err)
	value, _ := rec.Get("a")
	assert.Equal(t, "2", value)
}
