// Package authtest provides an in-process stand-in for the identity
// service's /validate endpoint.
package authtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Skotchmaster/microshop/pkg/authclient"
)

type Server struct {
	*httptest.Server

	mu     sync.Mutex
	tokens map[string]authclient.Identity
	seen   []string
}

// NewServer starts a fake identity service closed with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{tokens: map[string]authclient.Identity{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.validate))
	t.Cleanup(s.Close)
	return s
}

// Add makes token resolve to id.
func (s *Server) Add(token string, id authclient.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = id
}

// Seen returns the Authorization headers received so far.
func (s *Server) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost || r.URL.Path != "/validate" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}

	h := r.Header.Get("Authorization")
	s.mu.Lock()
	s.seen = append(s.seen, h)
	id, ok := s.tokens[h]
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token is invalid"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(id)
}
