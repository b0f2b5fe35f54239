// Package imsmock provides a scripted stand-in for a ThirdLight site.
// Responders are registered per action; every request envelope is recorded
// for later inspection by tests.
package imsmock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rethought/thirdlight-sdk-go/pkg/model"
)

// Responder produces the response document for one request. Returning nil
// makes the server reply with a null body, which some upload actions do.
type Responder func(env model.Envelope) any

// Server is an in-process HTTP server speaking the api.json.tlx protocol.
type Server struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	responders map[string]Responder
	requests   []model.Envelope
}

// New starts a mock site. The server is shut down by t.Cleanup. Environments
// that forbid listening sockets skip the calling test.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		t:          t,
		responders: make(map[string]Responder),
	}
	s.srv = startHTTPServer(t, http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the mock site's base URL, suitable for config.Config.AccountURL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Handle registers a responder for one action.
func (s *Server) Handle(action string, r Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responders[action] = r
}

// Respond registers a fixed response document for one action.
func (s *Server) Respond(action string, doc any) {
	s.Handle(action, func(model.Envelope) any { return doc })
}

// Requests returns a copy of every envelope received so far, in order.
func (s *Server) Requests() []model.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Envelope, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent envelope, failing the test when none
// has been received.
func (s *Server) LastRequest() model.Envelope {
	s.t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		s.t.Fatal("no requests received")
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var env model.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		s.t.Errorf("undecodable envelope: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, env)
	responder, ok := s.responders[env.Action]
	s.mu.Unlock()

	if !ok {
		_ = json.NewEncoder(w).Encode(APIError("UNKNOWN_ACTION " + env.Action))
		return
	}

	doc := responder(env)
	if doc == nil {
		_, _ = w.Write([]byte("null"))
		return
	}
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.t.Errorf("encode response for %s: %v", env.Action, err)
	}
}

// OK builds a successful response document around the given outParams.
func OK(outParams map[string]any) map[string]any {
	return map[string]any{
		"result":    map[string]any{"action": model.ResultOK, "api": model.ResultOK},
		"outParams": outParams,
	}
}

// APIError builds a server-side failure document with the given diagnostic.
func APIError(diagnostic string) map[string]any {
	return map[string]any{
		"result": map[string]any{"action": model.ResultAPIError, "api": diagnostic},
	}
}

func startHTTPServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if strings.Contains(msg, "operation not permitted") {
				t.Skip("network operations not permitted in sandbox")
			}
			panic(r)
		}
	}()
	return httptest.NewServer(handler)
}
