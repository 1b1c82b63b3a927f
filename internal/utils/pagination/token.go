package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position of the last row of a page in (timestamp, id) keyset order.
type Cursor struct {
	At time.Time
	ID string
}

// EncodeToken creates a base64 encoded token from a row timestamp and its id.
// This is used for consistent keyset pagination across repositories.
func EncodeToken(at time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", at.UTC().Format(timeFormat), id)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a Cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	at, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}
	return Cursor{At: at.UTC(), ID: parts[1]}, nil
}

// NextToken returns a token for the row after the last one of a full page, or nil
// when the page was short and nothing follows.
func NextToken(pageLen, limit int, at time.Time, id string) *string {
	if limit <= 0 || pageLen < limit {
		return nil
	}
	token := EncodeToken(at, id)
	return &token
}
