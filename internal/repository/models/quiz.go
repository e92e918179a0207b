package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON array in a text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Quiz maps a row of QUIZZES. One quiz per course.
type Quiz struct {
	CourseID             string    `db:"COURSE_ID"`
	PassThresholdPercent int       `db:"PASS_THRESHOLD_PERCENT"`
	TimeLimitSeconds     int       `db:"TIME_LIMIT_SECONDS"`
	CreatedAt            time.Time `db:"CREATED_AT"`
	UpdatedAt            time.Time `db:"UPDATED_AT"`
}

// QuizQuestion maps a row of QUIZ_QUESTIONS.
type QuizQuestion struct {
	ID           string      `db:"ID"`
	CourseID     string      `db:"COURSE_ID"`
	Position     int         `db:"POSITION"`
	Prompt       string      `db:"PROMPT"`
	Options      StringSlice `db:"OPTIONS"`
	CorrectIndex int         `db:"CORRECT_INDEX"`
}
