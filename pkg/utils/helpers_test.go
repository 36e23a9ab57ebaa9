package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42, ParseValue("42"))
	assert.Equal(t, 42, ParseValue(" 42 "))
	assert.Equal(t, 3.14, ParseValue("3.14"))
	assert.Equal(t, "UK", ParseValue("UK"))
	assert.Equal(t, "", ParseValue(""))
	assert.Equal(t, -7, ParseValue("-7"))
}

func TestParseFlag(t *testing.T) {
	v, err := ParseFlag("0")
	require.NoError(t, err)
	assert.False(t, v)

	v, err = ParseFlag(" 1 ")
	require.NoError(t, err)
	assert.True(t, v)

	_, err = ParseFlag("2")
	assert.Error(t, err)
	_, err = ParseFlag("true")
	assert.Error(t, err)
	_, err = ParseFlag("")
	assert.Error(t, err)
}
