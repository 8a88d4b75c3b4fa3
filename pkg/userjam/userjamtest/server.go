// Package userjamtest provides an in-process report endpoint for testing code
// that uses the userjam client.
package userjamtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/julienschmidt/httprouter"
	"github.com/loft-sh/log"
	"github.com/sirupsen/logrus"
	"github.com/userjam/userjam-go/pkg/userjam"
)

const ReportPath = "/api/report"

// Request is a report request as received by the Server.
type Request struct {
	Header http.Header
	Body   []byte

	// Payload is the decoded body, nil if the body was not valid JSON
	Payload map[string]interface{}
}

// TypedPayload decodes the body into a userjam.Payload.
func (r Request) TypedPayload() (userjam.Payload, error) {
	payload := userjam.Payload{}
	err := json.Unmarshal(r.Body, &payload)
	return payload, err
}

type Server struct {
	httpServer *httptest.Server
	log        log.Logger

	m          sync.Mutex
	requests   []Request
	statusCode int
	body       string
	delay      time.Duration
}

// NewServer starts a server that answers every report with 200 and {"status":"ok"}.
func NewServer() *Server {
	return NewServerWithLogger(log.Discard)
}

func NewServerWithLogger(logger log.Logger) *Server {
	s := &Server{
		log:        logger,
		statusCode: http.StatusOK,
		body:       `{"status":"ok"}`,
	}

	router := httprouter.New()
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, i interface{}) {
		http.Error(w, fmt.Errorf("panic: %v", i).Error(), http.StatusInternalServerError)
		s.log.Error(fmt.Errorf("panic: %v", i), string(debug.Stack()))
	}
	router.POST(ReportPath, s.report)

	handler := handlers.LoggingHandler(logger.Writer(logrus.DebugLevel, true), router)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{log: logger}), handlers.PrintRecoveryStack(true))(handler)
	s.httpServer = httptest.NewServer(handler)

	return s
}

type panicLogger struct {
	log log.Logger
}

func (r panicLogger) Println(args ...interface{}) {
	r.log.Error(args...)
}

// Endpoint is the report URL to pass to userjam.WithEndpoint.
func (s *Server) Endpoint() string {
	return s.httpServer.URL + ReportPath
}

// SetResponse changes the status and body returned for subsequent reports.
func (s *Server) SetResponse(statusCode int, body string) {
	s.m.Lock()
	defer s.m.Unlock()

	s.statusCode = statusCode
	s.body = body
}

// SetDelay makes the server wait before answering, or until the client gives up.
func (s *Server) SetDelay(delay time.Duration) {
	s.m.Lock()
	defer s.m.Unlock()

	s.delay = delay
}

// Requests returns a copy of all recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.m.Lock()
	defer s.m.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) Close() {
	s.httpServer.Close()
}

func (s *Server) report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.log.Debugf("received invalid JSON payload: %v", err)
		payload = nil
	}

	s.m.Lock()
	s.requests = append(s.requests, Request{
		Header:  r.Header.Clone(),
		Body:    body,
		Payload: payload,
	})
	statusCode, respBody, delay := s.statusCode, s.body, s.delay
	s.m.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(respBody))
}
