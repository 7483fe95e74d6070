package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-scorer/internal/scoring"
)

func newParam(t *testing.T, name string, c scoring.Category, weight float64) scoring.Parameter {
	t.Helper()
	var maxValue *float64
	var benefit scoring.BenefitType
	if c == scoring.Quantitative {
		v := 10.0
		maxValue, benefit = &v, scoring.BenefitHigher
	}
	p, err := scoring.NewParameter(name, c, weight, maxValue, benefit)
	require.NoError(t, err)
	return p
}

func keys(params []scoring.Parameter) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Key)
	}
	return out
}

func TestParameterStore_MissingFileIsEmpty(t *testing.T) {
	store := NewParameterStore(filepath.Join(t.TempDir(), "parameters.json"))

	params, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParameterStore_UpsertKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "parameters.json")
	store := NewParameterStore(path)

	require.NoError(t, store.Upsert(newParam(t, "Years of Experience", scoring.Quantitative, 10)))
	require.NoError(t, store.Upsert(newParam(t, "Has AWS Certification", scoring.Boolean, 5)))
	require.NoError(t, store.Upsert(newParam(t, "Proficiency in Go", scoring.Textual, 8)))

	// Re-adding an existing key replaces it without moving it.
	require.NoError(t, store.Upsert(newParam(t, "has  aws certification", scoring.Boolean, 2)))

	params, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"years_of_experience", "has_aws_certification", "proficiency_in_go"}, keys(params))
	assert.Equal(t, 2.0, params[1].Weight)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestParameterStore_UpsertRejectsInvalid(t *testing.T) {
	store := NewParameterStore(filepath.Join(t.TempDir(), "parameters.json"))

	p := newParam(t, "GPA", scoring.Quantitative, 1)
	p.MaxValue = nil
	assert.ErrorIs(t, store.Upsert(p), scoring.ErrInvalidConfig)

	params, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParameterStore_Delete(t *testing.T) {
	store := NewParameterStore(filepath.Join(t.TempDir(), "parameters.json"))
	require.NoError(t, store.Save([]scoring.Parameter{
		newParam(t, "GPA", scoring.Quantitative, 1),
		newParam(t, "Knows Go", scoring.Boolean, 1),
	}))

	require.NoError(t, store.Delete("Knows Go"))
	assert.ErrorIs(t, store.Delete("knows_go"), ErrNotFound)

	params, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"gpa"}, keys(params))
}

func TestParameterStore_SaveRejectsDuplicates(t *testing.T) {
	store := NewParameterStore(filepath.Join(t.TempDir(), "parameters.json"))
	p := newParam(t, "GPA", scoring.Quantitative, 1)

	assert.Error(t, store.Save([]scoring.Parameter{p, p}))
}

func TestParameterStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parameters.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gpa": {"type": `), 0o644))

	_, err := NewParameterStore(path).Load()
	assert.Error(t, err)
}
