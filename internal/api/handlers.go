package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

const maxTextLength = 500

type chatRequest struct {
	ConversationID int64  `json:"conversationId"`
	Text           string `json:"text"`
}

type validationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (r chatRequest) validate() map[string]string {
	fields := map[string]string{}
	if utf8.RuneCountInString(r.Text) == 0 {
		fields["text"] = "is required"
	} else if utf8.RuneCountInString(r.Text) > maxTextLength {
		fields["text"] = "must be at most 500 characters"
	}
	if r.ConversationID < 0 {
		fields["conversationId"] = "must be a positive integer"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// createConversation handles POST /api/conversations.
func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.service.CreateConversation(r.Context())
	if err != nil {
		s.logger.Error("failed to create conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// listMessages handles GET /api/conversations/{conversationID}/messages.
func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "conversation id must be numeric")
		return
	}

	msgs, err := s.service.History(r.Context(), id)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.logger.Error("failed to fetch history", "conversation_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// sendMessage handles POST /api/chat. A missing conversationId auto-creates
// a conversation; a provided but unknown one is rejected.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if fields := req.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, validationError{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}

	result, err := s.service.ProcessMessage(r.Context(), req.ConversationID, req.Text)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.logger.Error("failed to process message", "conversation_id", req.ConversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
