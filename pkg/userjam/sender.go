package userjam

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"
)

type sender struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	log log.Logger
}

// send encodes the payload and posts it on a new goroutine. Exactly one
// attempt is made per call.
func (s *sender) send(key string, payload Payload) *Future {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Debugf("failed to encode %s payload for user %s: %v", payload.Type, payload.UserID, err)
		return failedFuture(&SerializationError{Err: err})
	}

	future := newFuture()
	go func() {
		future.complete(s.post(key, payload, body))
	}()

	return future
}

func (s *sender) post(key string, payload Payload, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	s.log.Debugf("send %s for user %s to %s", payload.Type, payload.UserID, s.endpoint)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debugf("%s request for user %s failed: %v", payload.Type, payload.UserID, err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "read response")}
	}

	s.log.Debugf("%s request for user %s returned status %d", payload.Type, payload.UserID, resp.StatusCode)
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(out),
		Header:     resp.Header,
	}, nil
}
