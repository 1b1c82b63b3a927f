package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard timestamp with nanoseconds
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "sub-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, cursor.At, "Timestamp should match after decode")
	assert.Equal(t, "sub-1", cursor.ID, "ID should match after decode")

	// Non-UTC input comes back as the same instant in UTC
	local := time.Date(2024, 1, 10, 9, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	cursor, err = DecodeToken(EncodeToken(local, "a|b"))
	require.NoError(t, err)
	assert.True(t, local.Equal(cursor.At), "Instant should survive a zone change")
	assert.Equal(t, time.UTC, cursor.At.Location())
	assert.Equal(t, "a|b", cursor.ID, "IDs containing the separator survive")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, err = DecodeToken(noSeparator)
	assert.Error(t, err, "Should return an error for a token without id")
	assert.Contains(t, err.Error(), "split")

	badTime := base64.URLEncoding.EncodeToString([]byte("notadate|sub-1"))
	_, err = DecodeToken(badTime)
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "timestamp parse")
}

func TestNextToken(t *testing.T) {
	at := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, NextToken(3, 20, at, "x"), "Short page has no next token")
	assert.Nil(t, NextToken(0, 0, at, "x"))

	next := NextToken(20, 20, at, "x")
	require.NotNil(t, next)
	cursor, err := DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, Cursor{At: at, ID: "x"}, cursor)
}
