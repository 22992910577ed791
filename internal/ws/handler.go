// Package ws is the duplex transport for live interviews. It speaks the
// same session protocol as the REST endpoints; a client may submit an
// answer over either surface interchangeably.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
	"github.com/prepmate/interview-server-go/internal/provider"
	"github.com/prepmate/interview-server-go/internal/service"
)

// Frame is the envelope for every websocket message in both directions.
type Frame struct {
	Type string `json:"type"` // "join","joined","answer-submitted","feedback-ready","error"
	Data any    `json:"data"`
}

type JoinRequest struct {
	SessionID string `json:"sessionId"`
}

type AnswerSubmitted struct {
	SessionID  string `json:"sessionId"`
	AnswerText string `json:"answerText"`
	Provider   string `json:"provider"`
	APIKey     string `json:"apiKey"`
}

type ErrorData struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handler struct {
	interviewService *service.InterviewService
}

func NewHandler(interviewService *service.InterviewService) *Handler {
	return &Handler{interviewService: interviewService}
}

// Serve upgrades the connection and runs the event loop until the peer
// disconnects.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := NewClient(conn)

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		h.handleFrame(r.Context(), client, frame)
	}
}

func (h *Handler) handleFrame(ctx context.Context, client *Client, frame Frame) {
	switch frame.Type {
	case "join":
		var join JoinRequest
		unmarshalData(frame.Data, &join)
		h.join(ctx, client, join)

	case "answer-submitted":
		var answer AnswerSubmitted
		unmarshalData(frame.Data, &answer)
		// The provider round trip can take most of a minute; evaluate off
		// the read loop, on a context detached from the connection so a
		// peer drop cannot abort a call already in flight. The provider
		// timeout still bounds the work.
		go h.evaluate(context.WithoutCancel(ctx), client, answer)

	default:
		client.Send(errFrame(apperrors.ValidationError("Unknown frame type")))
	}
}

func (h *Handler) join(ctx context.Context, client *Client, join JoinRequest) {
	if join.SessionID == "" {
		client.Send(errFrame(apperrors.MissingRequired("sessionId")))
		return
	}

	detail, err := h.interviewService.GetSession(ctx, join.SessionID)
	if err != nil {
		client.Send(errFrame(err))
		return
	}

	client.Send(Frame{Type: "joined", Data: map[string]any{
		"sessionId": detail.ID,
		"status":    detail.Status,
	}})
}

func (h *Handler) evaluate(ctx context.Context, client *Client, answer AnswerSubmitted) {
	if answer.SessionID == "" {
		client.Send(errFrame(apperrors.MissingRequired("sessionId")))
		return
	}
	if answer.AnswerText == "" {
		client.Send(errFrame(apperrors.MissingRequired("answerText")))
		return
	}

	prov, err := provider.Parse(answer.Provider)
	if err != nil {
		client.Send(errFrame(err))
		return
	}

	eval, err := h.interviewService.SubmitAnswer(ctx, service.AnswerParams{
		SessionID:  answer.SessionID,
		Answer:     answer.AnswerText,
		Provider:   prov,
		Credential: answer.APIKey,
	})
	if err != nil {
		log.Error().Err(err).Str("sessionId", answer.SessionID).Msg("websocket answer evaluation failed")
		client.Send(errFrame(err))
		return
	}

	client.Send(Frame{Type: "feedback-ready", Data: eval})
}

func errFrame(err error) Frame {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}
	return Frame{Type: "error", Data: ErrorData{Code: appErr.Code, Message: appErr.Message}}
}

func unmarshalData(data any, v any) {
	b, _ := json.Marshal(data)
	_ = json.Unmarshal(b, v)
}
