package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prepmate/interview-server-go/internal/audit"
	"github.com/prepmate/interview-server-go/internal/cache"
	"github.com/prepmate/interview-server-go/internal/config"
	apperrors "github.com/prepmate/interview-server-go/internal/errors"
	"github.com/prepmate/interview-server-go/internal/model"
	"github.com/prepmate/interview-server-go/internal/parser"
	"github.com/prepmate/interview-server-go/internal/prompt"
	"github.com/prepmate/interview-server-go/internal/provider"
	"github.com/prepmate/interview-server-go/internal/repository"
	"github.com/prepmate/interview-server-go/internal/util"
)

// DefaultUserID attributes anonymous interviews so the history listing
// still works without an account.
const DefaultUserID = "default-user"

// CompleterFactory resolves a provider id to its adapter. Swappable so
// tests can substitute a canned backend.
type CompleterFactory func(p provider.Provider) (provider.Completer, error)

type StartParams struct {
	Profile    model.CandidateProfile
	Provider   provider.Provider
	Credential string
	UserID     string
}

type StartResult struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

type AnswerParams struct {
	SessionID  string
	Answer     string
	Provider   provider.Provider
	Credential string
}

// InterviewService drives the interview lifecycle: starting a session,
// evaluating answers, and exposing the durable history.
type InterviewService struct {
	interviewRepo repository.InterviewRepository
	exchangeRepo  repository.ExchangeRepository
	sessions      cache.SessionStore
	newCompleter  CompleterFactory
	locks         *sessionLocks
	target        int
	callTimeout   time.Duration
}

func NewInterviewService(
	interviewRepo repository.InterviewRepository,
	exchangeRepo repository.ExchangeRepository,
	sessions cache.SessionStore,
	newCompleter CompleterFactory,
	target int,
	callTimeout time.Duration,
) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		exchangeRepo:  exchangeRepo,
		sessions:      sessions,
		newCompleter:  newCompleter,
		locks:         newSessionLocks(),
		target:        target,
		callTimeout:   callTimeout,
	}
}

// StartInterview generates the opening question, creates the durable
// interview record and the live session, and records the standing
// question. The provider is called before anything is persisted, so a
// failed call leaves no trace.
func (s *InterviewService) StartInterview(ctx context.Context, params StartParams) (*StartResult, error) {
	if params.Credential == "" {
		return nil, apperrors.CredentialMissing()
	}
	completer, err := s.newCompleter(params.Provider)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	system, user := prompt.Opening(params.Profile)
	question, err := completer.Complete(callCtx, system, user, params.Credential)
	if err != nil {
		return nil, err
	}

	userID := params.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	role := params.Profile.Role
	if role == "" {
		role = config.DefaultRole
	}

	interview, err := s.interviewRepo.Create(ctx, model.CreateInterviewParams{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	session := &model.LiveSession{
		History: []model.Turn{{Role: model.TurnRoleInterviewer, Content: question}},
		Profile: params.Profile,
		State:   model.StateQuestion,
	}
	if err := s.sessions.Set(ctx, interview.ID, session); err != nil {
		return nil, apperrors.Internal("Failed to create session").WithCause(err)
	}

	if _, err := s.exchangeRepo.Create(ctx, model.CreateExchangeParams{
		InterviewID: interview.ID,
		Question:    question,
	}); err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("sessionId", interview.ID).
		Str("userId", userID).
		Str("provider", string(params.Provider)).
		Str("role", role).
		Msg("interview started")

	return &StartResult{SessionID: interview.ID, Question: question}, nil
}

// SubmitAnswer evaluates one answer under the per-session lock: it loads
// the live session, asks the provider for a verdict, appends the answer
// and next question to the turn history, and appends the answered row
// plus the new standing question to the durable log.
func (s *InterviewService) SubmitAnswer(ctx context.Context, params AnswerParams) (*parser.Evaluation, error) {
	if params.Credential == "" {
		return nil, apperrors.CredentialMissing()
	}
	completer, err := s.newCompleter(params.Provider)
	if err != nil {
		return nil, err
	}

	if !s.locks.Acquire(params.SessionID, config.SessionLockWait) {
		return nil, apperrors.SessionBusy()
	}
	defer s.locks.Release(params.SessionID)

	session, err := s.sessions.Get(ctx, params.SessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load session").WithCause(err)
	}
	if session == nil {
		return nil, apperrors.SessionNotFound()
	}
	askedQuestion := session.LastQuestion()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	system, user := prompt.Evaluation(session, params.Answer)
	raw, err := completer.Complete(callCtx, system, user, params.Credential)
	if err != nil {
		return nil, err
	}
	eval := parser.Parse(raw)

	session.History = append(session.History,
		model.Turn{Role: model.TurnRoleCandidate, Content: params.Answer},
		model.Turn{Role: model.TurnRoleInterviewer, Content: eval.NextQuestion},
	)
	completed := session.AnsweredCount() >= s.target
	if completed {
		session.State = model.StateCompleted
	}

	if err := s.sessions.Set(ctx, params.SessionID, session); err != nil {
		return nil, apperrors.Internal("Failed to persist session").WithCause(err)
	}

	evalJSON, err := json.Marshal(eval)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode evaluation").WithCause(err)
	}
	score := eval.Score

	answered := model.CreateExchangeParams{
		InterviewID: params.SessionID,
		Question:    askedQuestion,
		Answer:      &params.Answer,
		Evaluation:  evalJSON,
		Score:       &score,
	}
	standing := model.CreateExchangeParams{
		InterviewID: params.SessionID,
		Question:    eval.NextQuestion,
	}
	if err := s.exchangeRepo.CreatePair(ctx, answered, standing); err != nil {
		return nil, apperrors.Database(err)
	}

	if completed {
		// The evaluation is already durable at this point; a failed status
		// flip is logged and left for the abandon sweep to reconcile.
		if err := s.interviewRepo.UpdateStatus(ctx, params.SessionID, model.InterviewStatusCompleted); err != nil {
			log.Error().Err(err).Str("sessionId", params.SessionID).Msg("failed to mark interview completed")
		} else {
			audit.Log(ctx, audit.Event{Type: audit.EventInterviewFinish, SessionID: params.SessionID})
		}
	}

	log.Info().
		Str("sessionId", params.SessionID).
		Str("provider", string(params.Provider)).
		Int("score", eval.Score).
		Int("answered", session.AnsweredCount()).
		Bool("completed", completed).
		Msg("answer evaluated")

	return &eval, nil
}

// GetHistory lists a user's interviews, newest first, with exchange counts.
func (s *InterviewService) GetHistory(ctx context.Context, userID string) ([]model.InterviewSummary, error) {
	summaries, err := s.interviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if summaries == nil {
		summaries = []model.InterviewSummary{}
	}
	return summaries, nil
}

// GetSession returns the durable record of one interview with its
// exchanges in insertion order. It reads the database, not the cache, so
// it also serves sessions whose live state has expired.
func (s *InterviewService) GetSession(ctx context.Context, sessionID string) (*model.InterviewDetail, error) {
	// A malformed id cannot match the uuid column; skip the query.
	if !util.IsValidUUID(sessionID) {
		return nil, apperrors.SessionNotFound()
	}

	interview, err := s.interviewRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if interview == nil {
		return nil, apperrors.SessionNotFound()
	}

	exchanges, err := s.exchangeRepo.FindByInterviewID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if exchanges == nil {
		exchanges = []model.Exchange{}
	}

	return &model.InterviewDetail{Interview: *interview, Exchanges: exchanges}, nil
}
