package model

import (
	"encoding/json"
	"time"
)

type InterviewStatus string

const (
	InterviewStatusInProgress InterviewStatus = "in-progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusAbandoned  InterviewStatus = "abandoned"
)

// Interview is the durable header record for one interview session.
// It is never deleted; status is only ever moved forward.
type Interview struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	Role      string          `db:"role" json:"role"`
	Status    InterviewStatus `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

type CreateInterviewParams struct {
	ID     string
	UserID string
	Role   string
}

// Exchange is one append-only question record. The answer, evaluation and
// score land on a later insert for the same question text; a standing row
// is never mutated into an answered one.
type Exchange struct {
	ID          string           `db:"id" json:"id"`
	Seq         int64            `db:"seq" json:"-"`
	InterviewID string           `db:"interview_id" json:"interviewId"`
	Question    string           `db:"question" json:"question"`
	Answer      *string          `db:"answer" json:"answer,omitempty"`
	Evaluation  *json.RawMessage `db:"evaluation" json:"evaluation,omitempty"`
	Score       *int             `db:"score" json:"score,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

type CreateExchangeParams struct {
	InterviewID string
	Question    string
	Answer      *string
	Evaluation  json.RawMessage
	Score       *int
}

// InterviewSummary is an interview annotated with its exchange count,
// as returned by the history listing.
type InterviewSummary struct {
	Interview
	ExchangeCount int `db:"exchange_count" json:"exchangeCount"`
}

// InterviewDetail is the full durable view of one interview.
type InterviewDetail struct {
	Interview
	Exchanges []Exchange `json:"exchanges"`
}
