package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Content document identifiers.
const (
	ContentRosters   = "rosters"
	ContentTimetable = "timetable"
	ContentSettings  = "settings"
)

// JSONDocument is a raw JSON object stored in a jsonb column.
type JSONDocument json.RawMessage

// Value implements driver.Valuer.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return []byte(d), nil
}

// Scan implements sql.Scanner.
func (d *JSONDocument) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[:0], v...)
	case string:
		*d = JSONDocument(v)
	default:
		return fmt.Errorf("scan json document: unsupported type %T", value)
	}
	return nil
}

// MarshalJSON keeps the raw payload intact when re-encoding.
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

// UnmarshalJSON stores a copy of the raw payload.
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// ContentDocument is a single keyed document in the content store.
type ContentDocument struct {
	ID        string       `db:"id" json:"id"`
	Payload   JSONDocument `db:"payload" json:"payload"`
	UpdatedBy *string      `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Decode unmarshals the payload into dest.
func (d *ContentDocument) Decode(dest interface{}) error {
	if d == nil || len(d.Payload) == 0 {
		return fmt.Errorf("content document is empty")
	}
	return json.Unmarshal(d.Payload, dest)
}

// NewContentDocument encodes payload into a document ready for storage.
func NewContentDocument(id string, payload interface{}, updatedBy *string) (*ContentDocument, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", id, err)
	}
	return &ContentDocument{ID: id, Payload: JSONDocument(raw), UpdatedBy: updatedBy}, nil
}
