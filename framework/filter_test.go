package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("connection"))
	require.NoError(t, filters.MustNotMatch.Set("multiple"))

	assert.True(t, filters.AsFilter(TestID{Path: []string{"single connection"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"multiple connections"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"predefined line"}}))
}

func TestRegexFiltersWithNoPatternsMatchEverything(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(TestID{Path: []string{"anything"}}))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
	assert.False(t, list.IsDefined())
}

func TestRegexListString(t *testing.T) {
	var list RegexList
	require.NoError(t, list.Set("a"))
	require.NoError(t, list.Set("b+"))
	assert.Equal(t, `"a" or "b+"`, list.String())
	assert.Equal(t, "regex", list.Type())
}
