package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// QuestionOption is one answer of a placement test question; Category is the direction it votes for.
type QuestionOption struct {
	Text     string      `json:"text" validate:"required"`
	Category TestOutcome `json:"type" validate:"required,oneof=developer designer"`
}

// QuestionOptions is stored as a JSONB array and keeps its order.
type QuestionOptions []QuestionOption

func (o QuestionOptions) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

func (o *QuestionOptions) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*o = QuestionOptions{}
		return nil
	default:
		return errors.New("question options: unsupported source type")
	}
	return json.Unmarshal(raw, o)
}

type TestQuestion struct {
	ID       int             `json:"id" db:"id"`
	Question string          `json:"question" db:"question"`
	Options  QuestionOptions `json:"options" db:"options"`
	Order    int             `json:"order" db:"sort_order"`
}
