// Package server exposes the agent over HTTP. Each /chat request gets a
// fresh, request-scoped session — nothing is shared between requests.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaltSixteen/terminpilot-agent/internal/agent"
)

type chatRequest struct {
	UserMessage string `json:"userMessage"`
}

type chatResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

type Server struct {
	agent *agent.Agent
}

func NewHandler(ag *agent.Agent) http.Handler {
	s := &Server{agent: ag}
	r := chi.NewRouter()
	r.Get("/", s.liveness)
	r.Post("/chat", s.chat)
	return r
}

func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("TerminPilot Agent is running."))
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if r.Body != nil {
		// A missing or empty body is fine; we fall back to the greeting.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.UserMessage == "" {
		req.UserMessage = "Hallo!"
	}

	reply, _, err := s.agent.Run(r.Context(), nil, req.UserMessage)
	if err != nil {
		var limitErr *agent.RoundLimitError
		if errors.As(err, &limitErr) {
			log.Printf("chat aborted: %v", limitErr)
		} else {
			log.Printf("chat failed: %v", err)
		}
		writeJSON(w, http.StatusInternalServerError, chatResponse{OK: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{OK: true, Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, body chatResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("writing response: %v", err)
	}
}
