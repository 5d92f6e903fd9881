package tool

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCursor reports a cursor that decodes but cannot address a row.
var ErrInvalidCursor = errors.New("invalid cursor")

// CursorData represents the data encoded in a cursor
type CursorData struct {
	AfterID   string    `json:"after_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// IsZero reports whether the cursor points at the first page.
func (c CursorData) IsZero() bool {
	return c.AfterID == ""
}

// Validate checks that a non-empty cursor names a row by uuid and creation
// time, the keyset the list query seeks on.
func (c CursorData) Validate() error {
	if c.IsZero() {
		return nil
	}
	if _, err := uuid.Parse(c.AfterID); err != nil || c.CreatedAt.IsZero() {
		return ErrInvalidCursor
	}
	return nil
}

// EncodeCursor encodes cursor data to a base64 string
func EncodeCursor(data CursorData) string {
	if data.AfterID == "" {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to CursorData
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, err
	}

	var data CursorData
	err = json.Unmarshal(decoded, &data)
	return data, err
}

// NextCursor returns the cursor continuing after the last tool of a page, or
// "" when the page was not full.
func NextCursor(page []Tool, limit int) string {
	if limit <= 0 || len(page) < limit {
		return ""
	}
	last := page[len(page)-1]
	return EncodeCursor(CursorData{AfterID: last.ID, CreatedAt: last.CreatedAt})
}
