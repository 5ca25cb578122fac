package job

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFields(t *testing.T) {
	assert.NoError(t, GetMockFields().Validate())
}

func TestValidateMissingFields(t *testing.T) {
	f := Fields{Title: "Python Programmer (Entry-Level)"}

	err := f.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"company is required", "location is required"}, verr.Problems)
}

func TestValidateAll(t *testing.T) {
	fs := []Fields{GetMockFields(), {Title: "a", Company: "b"}}

	err := ValidateAll(fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs[1]: location is required")
	assert.NotContains(t, err.Error(), "jobs[0]")

	assert.NoError(t, ValidateAll(fs[:1]))
}

func TestValidateAllEmpty(t *testing.T) {
	err := ValidateAll(nil)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestParseID(t *testing.T) {
	id := NewID()

	oid, err := ParseID(id)
	assert.NoError(t, err)
	assert.Equal(t, id, oid.Hex())

	for _, bad := range []string{"", "nope", "66eb21b2adf5db590529e5f", "zzeb21b2adf5db590529e5fe"} {
		_, err := ParseID(bad)
		assert.True(t, errors.Is(err, ErrInvalidID), bad)
	}
}

func TestCanonicalID(t *testing.T) {
	id := NewID()

	got, err := CanonicalID(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = CanonicalID("nope")
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestJobJSON(t *testing.T) {
	j := New("66eb21b2adf5db590529e5fe", GetMockFields())

	b, err := json.Marshal(j)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"_id": "66eb21b2adf5db590529e5fe",
		"title": "Senior Python Developer",
		"company": "Payne, Roberts and Davis",
		"location": "Stewartbury, AA"
	}`, string(b))

	b, err = json.Marshal(New("", GetMockFields()))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "_id")
}

func TestUnavailable(t *testing.T) {
	err := Unavailable(errors.New("no reachable servers"))
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "no reachable servers")

	assert.Equal(t, ErrStoreUnavailable, Unavailable(nil))
}
