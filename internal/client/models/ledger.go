package models

import (
	"encoding/json"
	"time"
)

type RecordType string

const (
	Income  RecordType = "income"
	Expense RecordType = "expense"
)

func (t RecordType) Valid() bool { return t == Income || t == Expense }

type Booklet struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   Time   `json:"created_at"`
	UpdatedAt   Time   `json:"updated_at"`
}

// BookletInput is the body of booklet create and update.
type BookletInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Record is one income or expense entry of a booklet.
type Record struct {
	ID          ID         `json:"id"`
	Type        RecordType `json:"type"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        Time       `json:"date"`
	Timestamp   Time       `json:"timestamp"`
	CreatedAt   Time       `json:"createdAt"`
	UpdatedAt   Time       `json:"updatedAt"`
}

func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var aux struct {
		plain
		MongoID        ID   `json:"_id"`
		CreatedAtSnake Time `json:"created_at"`
		UpdatedAtSnake Time `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*r = Record(aux.plain)
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = aux.CreatedAtSnake
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = aux.UpdatedAtSnake
	}
	return nil
}

// When is the moment the record is attributed to: creation time, else the
// client timestamp, else the last update.
func (r Record) When() time.Time {
	for _, t := range []Time{r.CreatedAt, r.Timestamp, r.UpdatedAt} {
		if !t.IsZero() {
			return t.Time
		}
	}
	return time.Time{}
}

// RecordInput is the body of record create and update.
type RecordInput struct {
	Type        RecordType `json:"type"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
}
