package userjam_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/userjam/userjam-go/pkg/userjam"
	"github.com/userjam/userjam-go/pkg/userjam/userjamtest"
	"gotest.tools/assert"
	gotestcmp "gotest.tools/assert/cmp"
)

func newTestClient(server *userjamtest.Server, opts ...userjam.Option) *userjam.Client {
	opts = append([]userjam.Option{
		userjam.WithEndpoint(server.Endpoint()),
		userjam.WithTimeout(5 * time.Second),
	}, opts...)
	return userjam.New(opts...)
}

func waitFor(t *testing.T, future *userjam.Future) (*userjam.Response, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return future.Wait(ctx)
}

func TestNotConfigured(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	testCases := []struct {
		description string
		auth        bool
	}{
		{description: "auth never called"},
		{description: "empty key", auth: true},
	}

	for _, testCase := range testCases {
		client := newTestClient(server)
		if testCase.auth {
			client.Auth("")
		}

		future, err := client.Track("u1", "Signup", nil)
		assert.Assert(t, future == nil, testCase.description)
		assert.Assert(t, errors.Is(err, userjam.ErrNotConfigured), testCase.description)

		future, err = client.Identify("u1", nil)
		assert.Assert(t, future == nil, testCase.description)
		assert.Assert(t, errors.Is(err, userjam.ErrNotConfigured), testCase.description)
	}

	assert.Equal(t, len(server.Requests()), 0)
}

func TestAuthorizationHeader(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	client := newTestClient(server)
	client.Auth("k")

	trackFuture, err := client.Track("u1", "Signup", nil)
	assert.NilError(t, err)
	identifyFuture, err := client.Identify("u1", nil)
	assert.NilError(t, err)
	assert.NilError(t, userjam.WaitAll(context.Background(), trackFuture, identifyFuture))

	requests := server.Requests()
	assert.Equal(t, len(requests), 2)
	for _, request := range requests {
		assert.Equal(t, request.Header.Get("Authorization"), "Bearer k")
		assert.Equal(t, request.Header.Get("Content-Type"), "application/json")
		assert.Assert(t, gotestcmp.Contains(request.Header.Get("User-Agent"), "userjam-go/"))
	}
}

func TestTrackBody(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	client := newTestClient(server, userjam.WithKey("k"))

	before := time.Now().UTC()
	future, err := client.Track("u1", "Signup", userjam.Properties{"plan": "pro"})
	assert.NilError(t, err)
	after := time.Now().UTC()

	resp, err := waitFor(t, future)
	assert.NilError(t, err)
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	requests := server.Requests()
	assert.Equal(t, len(requests), 1)

	timestamp, ok := requests[0].Payload["timestamp"].(string)
	assert.Assert(t, ok, "timestamp should be a string")
	assertTimestampBetween(t, timestamp, before, after)

	expected := fmt.Sprintf(`{"type":"track","userId":"u1","timestamp":%q,"event":"Signup","properties":{"plan":"pro"}}`, timestamp)
	assert.Equal(t, string(requests[0].Body), expected)
}

func TestIdentifyBody(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	client := newTestClient(server, userjam.WithKey("k"))

	before := time.Now().UTC()
	future, err := client.Identify("u1", userjam.Traits{"email": "a@b.com"})
	assert.NilError(t, err)
	after := time.Now().UTC()

	_, err = waitFor(t, future)
	assert.NilError(t, err)

	requests := server.Requests()
	assert.Equal(t, len(requests), 1)

	timestamp, ok := requests[0].Payload["timestamp"].(string)
	assert.Assert(t, ok, "timestamp should be a string")
	assertTimestampBetween(t, timestamp, before, after)

	expected := fmt.Sprintf(`{"type":"identify","userId":"u1","timestamp":%q,"traits":{"email":"a@b.com"}}`, timestamp)
	assert.Equal(t, string(requests[0].Body), expected)
}

func assertTimestampBetween(t *testing.T, timestamp string, before, after time.Time) {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	assert.NilError(t, err)
	assert.Assert(t, !parsed.Before(before), "timestamp %s before call", timestamp)
	assert.Assert(t, !parsed.After(after), "timestamp %s after call", timestamp)
}

func TestOmittedOptionalMaps(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	client := newTestClient(server, userjam.WithKey("k"), userjam.WithClock(func() time.Time { return fixed }))

	trackFuture, err := client.TrackEvent("u1", "Signup")
	assert.NilError(t, err)
	_, err = waitFor(t, trackFuture)
	assert.NilError(t, err)

	identifyFuture, err := client.Identify("u2", nil)
	assert.NilError(t, err)
	_, err = waitFor(t, identifyFuture)
	assert.NilError(t, err)

	bodies := map[string]string{}
	for _, request := range server.Requests() {
		bodies[request.Payload["type"].(string)] = string(request.Body)
	}

	expected := map[string]string{
		"track":    `{"type":"track","userId":"u1","timestamp":"2024-05-06T07:08:09Z","event":"Signup"}`,
		"identify": `{"type":"identify","userId":"u2","timestamp":"2024-05-06T07:08:09Z"}`,
	}
	assert.DeepEqual(t, bodies, expected)
}

func TestNonSuccessStatusResolves(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()
	server.SetResponse(http.StatusUnauthorized, `{"error":"invalid key"}`)

	client := newTestClient(server, userjam.WithKey("wrong"))
	future, err := client.Track("u1", "Signup", nil)
	assert.NilError(t, err)

	resp, err := waitFor(t, future)
	assert.NilError(t, err)
	assert.Equal(t, resp.StatusCode, http.StatusUnauthorized)
	assert.Equal(t, resp.Body, `{"error":"invalid key"}`)
	assert.Assert(t, !resp.IsSuccess())
}

func TestTransportFailure(t *testing.T) {
	server := userjamtest.NewServer()
	endpoint := server.Endpoint()
	server.Close()

	client := userjam.New(userjam.WithEndpoint(endpoint), userjam.WithKey("k"))

	future, err := client.Track("u1", "Signup", nil)
	assert.NilError(t, err, "transport failures must not be returned synchronously")

	resp, err := waitFor(t, future)
	assert.Assert(t, resp == nil)
	assert.Assert(t, userjam.IsTransportError(err), "unexpected error %v", err)

	var transportErr *userjam.TransportError
	assert.Assert(t, errors.As(err, &transportErr))
	assert.Assert(t, transportErr.Unwrap() != nil, "underlying cause should be attached")
}

func TestRequestTimeout(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()
	server.SetDelay(2 * time.Second)

	client := newTestClient(server, userjam.WithKey("k"), userjam.WithTimeout(50*time.Millisecond))
	future, err := client.Track("u1", "Signup", nil)
	assert.NilError(t, err)

	_, err = waitFor(t, future)
	assert.Assert(t, userjam.IsTransportError(err))
	assert.Assert(t, errors.Is(err, context.DeadlineExceeded), "unexpected error %v", err)
}

func TestSerializationFailure(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	client := newTestClient(server, userjam.WithKey("k"))
	future, err := client.Track("u1", "Signup", userjam.Properties{"callback": func() {}})
	assert.NilError(t, err)

	select {
	case <-future.Done():
	default:
		t.Fatal("serialization failures should complete the future immediately")
	}

	_, err = future.Result()
	assert.Assert(t, userjam.IsSerializationError(err), "unexpected error %v", err)

	var unsupported *json.UnsupportedTypeError
	assert.Assert(t, errors.As(err, &unsupported))
	assert.Equal(t, len(server.Requests()), 0)
}

func TestConcurrentTracks(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	client := newTestClient(server, userjam.WithKey("k"))

	var wg sync.WaitGroup
	futures := make([]*userjam.Future, 2)
	for i := range futures {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			future, err := client.Track(fmt.Sprintf("user-%d", i), "Signup", userjam.Properties{"index": i})
			assert.Check(t, err)
			futures[i] = future
		}(i)
	}
	wg.Wait()
	assert.NilError(t, userjam.WaitAll(context.Background(), futures...))

	requests := server.Requests()
	assert.Equal(t, len(requests), 2)

	seen := map[string]float64{}
	for _, request := range requests {
		properties := request.Payload["properties"].(map[string]interface{})
		seen[request.Payload["userId"].(string)] = properties["index"].(float64)
	}
	assert.DeepEqual(t, seen, map[string]float64{"user-0": 0, "user-1": 1})
}

func TestAuthOnlyAffectsLaterRequests(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()
	server.SetDelay(100 * time.Millisecond)

	client := newTestClient(server)
	client.Auth("first")
	firstFuture, err := client.Track("u1", "First", nil)
	assert.NilError(t, err)

	client.Auth("second")
	assert.Equal(t, client.Key(), "second")
	secondFuture, err := client.Track("u1", "Second", nil)
	assert.NilError(t, err)

	assert.NilError(t, userjam.WaitAll(context.Background(), firstFuture, secondFuture))

	keys := map[string]string{}
	for _, request := range server.Requests() {
		keys[request.Payload["event"].(string)] = request.Header.Get("Authorization")
	}
	assert.Assert(t, cmp.Equal(keys, map[string]string{
		"First":  "Bearer first",
		"Second": "Bearer second",
	}), cmp.Diff(keys, map[string]string{"First": "Bearer first", "Second": "Bearer second"}))
}

func TestIndependentClients(t *testing.T) {
	server := userjamtest.NewServer()
	defer server.Close()

	a := newTestClient(server, userjam.WithKey("a"))
	b := newTestClient(server)

	future, err := a.TrackEvent("u1", "Signup")
	assert.NilError(t, err)
	_, err = waitFor(t, future)
	assert.NilError(t, err)

	_, err = b.TrackEvent("u1", "Signup")
	assert.Assert(t, errors.Is(err, userjam.ErrNotConfigured))
	assert.Equal(t, len(server.Requests()), 1)
}
