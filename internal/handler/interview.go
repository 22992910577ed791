package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/prepmate/interview-server-go/internal/audit"
	apperrors "github.com/prepmate/interview-server-go/internal/errors"
	"github.com/prepmate/interview-server-go/internal/middleware"
	"github.com/prepmate/interview-server-go/internal/model"
	"github.com/prepmate/interview-server-go/internal/provider"
	"github.com/prepmate/interview-server-go/internal/service"
)

type InterviewHandler struct {
	interviewService *service.InterviewService
	authService      *service.AuthService
}

func NewInterviewHandler(interviewService *service.InterviewService, authService *service.AuthService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		authService:      authService,
	}
}

func (h *InterviewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/start", h.Start)
	r.Post("/answer", h.Answer)
	r.Get("/history/{userId}", h.History)
	r.Get("/session/{sessionId}", h.Session)

	return r
}

// resolveCredential prefers the key sent with the request, then the
// authenticated user's stored key.
func (h *InterviewHandler) resolveCredential(r *http.Request, requestKey string) (string, error) {
	if requestKey != "" {
		return requestKey, nil
	}
	user := middleware.GetUser(r.Context())
	if user == nil {
		return "", nil
	}
	return h.authService.APIKeyFor(r.Context(), user.ID)
}

// POST /interview/start
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile  model.CandidateProfile `json:"profile"`
		Provider string                 `json:"provider"`
		APIKey   string                 `json:"apiKey"`
		UserID   string                 `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	prov, err := provider.Parse(req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}

	credential, err := h.resolveCredential(r, req.APIKey)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := req.UserID
	if user := middleware.GetUser(r.Context()); user != nil {
		userID = user.ID
	}

	// Detached from the request context: once the provider call is
	// committed to, a client disconnect must not abort it or lose the
	// writes that follow.
	result, err := h.interviewService.StartInterview(context.WithoutCancel(r.Context()), service.StartParams{
		Profile:    req.Profile,
		Provider:   prov,
		Credential: credential,
		UserID:     userID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to start interview")
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventInterviewStart, UserID: userID, SessionID: result.SessionID})
	writeJSON(w, http.StatusCreated, result)
}

// POST /interview/answer
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
		Answer    string `json:"answer"`
		Provider  string `json:"provider"`
		APIKey    string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	if req.SessionID == "" {
		writeError(w, apperrors.MissingRequired("sessionId"))
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		writeError(w, apperrors.MissingRequired("answer"))
		return
	}

	prov, err := provider.Parse(req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}

	credential, err := h.resolveCredential(r, req.APIKey)
	if err != nil {
		writeError(w, err)
		return
	}

	eval, err := h.interviewService.SubmitAnswer(context.WithoutCancel(r.Context()), service.AnswerParams{
		SessionID:  req.SessionID,
		Answer:     req.Answer,
		Provider:   prov,
		Credential: credential,
	})
	if err != nil {
		log.Error().Err(err).Str("sessionId", req.SessionID).Msg("failed to evaluate answer")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// GET /interview/history/{userId}
func (h *InterviewHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, apperrors.MissingRequired("userId"))
		return
	}

	summaries, err := h.interviewService.GetHistory(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to list interview history")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GET /interview/session/{sessionId}
func (h *InterviewHandler) Session(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	detail, err := h.interviewService.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
