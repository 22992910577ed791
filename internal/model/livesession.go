package model

type TurnRole string

const (
	TurnRoleInterviewer TurnRole = "interviewer"
	TurnRoleCandidate   TurnRole = "candidate"
)

type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// CandidateProfile is the resume-derived metadata a session is started with.
type CandidateProfile struct {
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Role       string   `json:"role,omitempty"`
}

type SessionState string

const (
	// StateQuestion means a question has been issued and the engine is
	// waiting for an answer.
	StateQuestion SessionState = "question"
	// StateCompleted means the exchange target has been reached. The state
	// never reverts; further answers are still accepted (the display target
	// is a client-side contract).
	StateCompleted SessionState = "completed"
)

// LiveSession is the ephemeral working memory for one in-progress
// interview: the full turn history plus the candidate profile used to
// build prompts. It lives in the cache tier under a refreshed TTL and is
// independent of the durable Interview/Exchange records.
type LiveSession struct {
	History []Turn           `json:"history"`
	Profile CandidateProfile `json:"profile"`
	State   SessionState     `json:"state"`
}

// LastQuestion returns the content of the trailing interviewer turn.
func (s *LiveSession) LastQuestion() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Content
}

// AnsweredCount derives the number of answered exchanges from the turn
// history: each answered exchange contributes an interviewer turn and a
// candidate turn, plus the still-unanswered trailing question.
func (s *LiveSession) AnsweredCount() int {
	return len(s.History) / 2
}
