package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stayware/sessionkit/pkg/history"
	"github.com/stayware/sessionkit/pkg/logger"
	"github.com/stayware/sessionkit/pkg/notify"
	"github.com/stayware/sessionkit/pkg/session"
)

const maxBodyBytes = 1 << 20

// sink accumulates received lifecycle events. Every event lands in the
// in-memory ring served by GET /events; when a persistent store is
// configured the recorder batches them there as well.
type sink struct {
	log      *slog.Logger
	ring     *history.Memory
	recorder *history.Recorder
	secret   string
	maxAge   time.Duration
}

func (s *sink) routes(r chi.Router) {
	r.Post("/auth/session/create", s.handleCreate)
	r.Post("/auth/session/invalidate", s.handleInvalidate)
	r.Post("/auth/session/rotate", s.handleRotate)
	r.Get("/events", s.handleEvents)
}

func (s *sink) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload notify.CreatePayload
	if !s.accept(w, r, &payload) {
		return
	}

	s.log.InfoContext(r.Context(), "Session created",
		logger.SessionID(payload.SessionID),
		"login_method", payload.LoginMethod,
		"device_fingerprint", payload.DeviceFingerprint)

	s.record(r, session.Event{
		Type:        session.EventCreated,
		SessionID:   payload.SessionID,
		LoginMethod: payload.LoginMethod,
		Time:        time.Now().UTC(),
	})
	w.WriteHeader(http.StatusAccepted)
}

func (s *sink) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var payload notify.InvalidatePayload
	if !s.accept(w, r, &payload) {
		return
	}

	s.log.InfoContext(r.Context(), "Session invalidated",
		logger.SessionID(payload.SessionID),
		logger.Reason(payload.Reason))

	s.record(r, session.Event{
		Type:      session.EventInvalidated,
		SessionID: payload.SessionID,
		Reason:    payload.Reason,
		Time:      time.Now().UTC(),
	})
	w.WriteHeader(http.StatusAccepted)
}

func (s *sink) handleRotate(w http.ResponseWriter, r *http.Request) {
	var payload notify.RotatePayload
	if !s.accept(w, r, &payload) {
		return
	}

	s.log.InfoContext(r.Context(), "Session rotated",
		"old_session_id", payload.OldSessionID,
		logger.SessionID(payload.NewSessionID))

	s.record(r, session.Event{
		Type:         session.EventRotated,
		SessionID:    payload.NewSessionID,
		OldSessionID: payload.OldSessionID,
		Time:         time.Now().UTC(),
	})
	w.WriteHeader(http.StatusAccepted)
}

type eventsResponse struct {
	Events  []session.Event `json:"events"`
	Count   int             `json:"count"`
	Dropped int64           `json:"dropped,omitempty"`
}

func (s *sink) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.ring.Events()
	resp := eventsResponse{Events: events, Count: len(events)}
	if s.recorder != nil {
		resp.Dropped = s.recorder.Dropped()
	}
	writeJSON(w, http.StatusOK, resp)
}

// accept reads, authenticates and decodes one notification body. On failure
// it writes the error response and reports false.
func (s *sink) accept(w http.ResponseWriter, r *http.Request, payload any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return false
	}

	if s.secret != "" {
		headers, err := notify.ExtractSignatureHeaders(r.Header)
		if err == nil {
			err = notify.VerifySignature(s.secret, body, headers, s.maxAge)
		}
		if err != nil {
			s.log.WarnContext(r.Context(), "Rejected unsigned or tampered notification",
				logger.Endpoint(r.URL.Path), logger.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return false
		}
	}

	if err := json.Unmarshal(body, payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

func (s *sink) record(r *http.Request, event session.Event) {
	// The ring cannot fail; the recorder hands off to its own worker.
	_ = s.ring.StoreBatch(r.Context(), []session.Event{event})
	if s.recorder != nil {
		s.recorder.Record(event)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
