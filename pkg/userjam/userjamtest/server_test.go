package userjamtest

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/loft-sh/log"
	"github.com/sirupsen/logrus"
	"gotest.tools/assert"
)

func TestServerRecordsReports(t *testing.T) {
	server := NewServer()
	defer server.Close()

	body := []byte(`{"type":"track","userId":"u1","timestamp":"2024-01-02T03:04:05Z","event":"Signup"}`)
	req, err := http.NewRequest(http.MethodPost, server.Endpoint(), bytes.NewReader(body))
	assert.NilError(t, err)
	req.Header.Set("Authorization", "Bearer k")

	resp, err := http.DefaultClient.Do(req)
	assert.NilError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	requests := server.Requests()
	assert.Equal(t, len(requests), 1)
	assert.Equal(t, requests[0].Header.Get("Authorization"), "Bearer k")
	assert.Equal(t, requests[0].Payload["event"], "Signup")

	payload, err := requests[0].TypedPayload()
	assert.NilError(t, err)
	assert.Equal(t, payload.UserID, "u1")
	assert.Equal(t, string(payload.Type), "track")
}

func TestServerCustomResponse(t *testing.T) {
	server := NewServer()
	defer server.Close()
	server.SetResponse(http.StatusUnauthorized, `{"error":"unauthorized"}`)

	resp, err := http.Post(server.Endpoint(), "application/json", bytes.NewReader([]byte("not json")))
	assert.NilError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, resp.StatusCode, http.StatusUnauthorized)
	requests := server.Requests()
	assert.Equal(t, len(requests), 1)
	assert.Assert(t, requests[0].Payload == nil)
	assert.Equal(t, string(requests[0].Body), "not json")
}

func TestServerRejectsOtherMethods(t *testing.T) {
	server := NewServer()
	defer server.Close()

	resp, err := http.Get(server.Endpoint())
	assert.NilError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, resp.StatusCode, http.StatusMethodNotAllowed)
	assert.Equal(t, len(server.Requests()), 0)
}

func TestServerWithLogger(t *testing.T) {
	stderr := &bytes.Buffer{}
	logger := log.NewStreamLogger(&bytes.Buffer{}, stderr, logrus.InfoLevel)

	server := NewServerWithLogger(logger)
	resp, err := http.Post(server.Endpoint(), "application/json", bytes.NewReader([]byte(`{"type":"identify","userId":"u1"}`)))
	assert.NilError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, len(server.Requests()), 1)
	server.Close()

	panicLogger{log: logger}.Println("handler failed")
	assert.Assert(t, strings.Contains(stderr.String(), "handler failed"), stderr.String())
}
