package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	s, errs := LoadDir(filepath.Join("testdata", "schema"), LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, s)

	assert.Equal(t, 1, s.FileCount)
	require.Len(t, s.Tables, 1)

	table, ok := s.Table("Employee")
	require.True(t, ok)
	assert.Equal(t, "id", table.PrimaryKey)
	assert.Len(t, table.Columns, 6)
	assert.Len(t, table.Indexes, 2)

	_, ok = s.Table("Nope")
	assert.False(t, ok)
}

func TestLoadDirCollectAll(t *testing.T) {
	s, errs := LoadDir(filepath.Join("testdata", "badschema"), LoadModeCollectAll)
	require.NotNil(t, s)
	require.Len(t, errs, 2)

	var codes []string
	for _, err := range errs {
		le, ok := err.(*LoadError)
		require.True(t, ok, "got %T", err)
		codes = append(codes, le.Code)
	}
	assert.ElementsMatch(t, []string{ErrCodePrimaryKey, ErrCodeInvalidType}, codes)
}

func TestLoadDirFailFast(t *testing.T) {
	_, errs := LoadDir(filepath.Join("testdata", "badschema"), LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadDirMissing(t *testing.T) {
	_, errs := LoadDir(filepath.Join("testdata", "does-not-exist"), LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNotFound)
}

func TestLoadDirNoFiles(t *testing.T) {
	_, errs := LoadDir(t.TempDir(), LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNoFiles)
}

func TestLoadString(t *testing.T) {
	s, errs := LoadString(`table: T: { primary_key: "k", columns: { k: string } }`, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "T", s.Tables[0].Name)

	_, errs = LoadString(`other: 1`, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no tables")
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodePrimaryKey, MapFieldToErrorCode("primary_key"))
	assert.Equal(t, ErrCodeIndexes, MapFieldToErrorCode("indexes.by_name.columns"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("cue"))
}
