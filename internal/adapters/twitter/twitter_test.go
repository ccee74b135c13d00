package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announcebot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuleManager_EnsureRule_Existing(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, rulesPath, r.URL.Path)
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		fmt.Fprint(w, `{"data":[{"id":"1","value":"from:other","tag":"x"},{"id":"42","value":"from:pj_sekai","tag":"official_account_tweets"}]}`)
	}))
	defer srv.Close()

	m := NewRuleManager(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	id, err := m.EnsureRule(context.Background(), "pj_sekai", "official_account_tweets")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Zero(t, posts.Load())
}

func TestRuleManager_EnsureRule_Adds(t *testing.T) {
	var added addRulesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// No "data" key at all when the rule list is empty.
			fmt.Fprint(w, `{"meta":{"result_count":0}}`)
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&added))
			fmt.Fprint(w, `{"data":[{"id":"99","value":"from:pj_sekai","tag":"official_account_tweets"}],"meta":{"summary":{"created":1}}}`)
		}
	}))
	defer srv.Close()

	m := NewRuleManager(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	id, err := m.EnsureRule(context.Background(), "pj_sekai", "official_account_tweets")
	require.NoError(t, err)
	assert.Equal(t, "99", id)
	require.Len(t, added.Add, 1)
	assert.Equal(t, "from:pj_sekai", added.Add[0].Value)
	assert.Equal(t, "official_account_tweets", added.Add[0].Tag)
}

func TestRuleManager_EnsureRule_NotCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprint(w, `{"meta":{"summary":{"created":0,"invalid":1}},"errors":[{"title":"DuplicateRule"}]}`)
	}))
	defer srv.Close()

	m := NewRuleManager(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	_, err := m.EnsureRule(context.Background(), "pj_sekai", "tag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DuplicateRule")
}

func TestRuleManager_EnsureRule_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewRuleManager(NewClient(srv.URL, "bad", srv.Client()), testLogger())
	_, err := m.EnsureRule(context.Background(), "pj_sekai", "tag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRuleManager_EnsureRule_RequiresInput(t *testing.T) {
	m := NewRuleManager(NewClient("http://unused", "tok", nil), testLogger())
	_, err := m.EnsureRule(context.Background(), "", "tag")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStream_Next(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, streamPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, "\r\n")
		fmt.Fprint(w, `{"data":{"id":"1","text":"イベント「A」は8月31日 21:00まで！"},"matching_rules":[{"id":"42","tag":"t"}]}`+"\r\n")
		fmt.Fprint(w, "\r\n")
		fmt.Fprint(w, "not json\r\n")
		fmt.Fprint(w, `{"matching_rules":[]}`+"\r\n")
		fmt.Fprint(w, `{"data":{"id":"2","text":"second"}}`+"\r\n")
	}))
	defer srv.Close()

	s := NewStream(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	defer s.Close()
	ctx := context.Background()

	msg, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedMessage{ID: "1", Text: "イベント「A」は8月31日 21:00まで！"}, msg)

	_, err = s.Next(ctx)
	require.ErrorIs(t, err, domain.ErrMalformedMessage)

	_, err = s.Next(ctx)
	require.ErrorIs(t, err, domain.ErrMalformedMessage)

	msg, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", msg.ID)

	_, err = s.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, domain.ErrMalformedMessage)
}

func TestStream_ReconnectsAfterClose(t *testing.T) {
	var connects atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := connects.Add(1)
		fmt.Fprintf(w, `{"data":{"id":"%d","text":"x"}}`+"\n", n)
	}))
	defer srv.Close()

	s := NewStream(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	msg, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", msg.ID)
	require.NoError(t, s.Close())

	msg, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", msg.ID)
	require.NoError(t, s.Close())
	assert.Equal(t, int32(2), connects.Load())
}

func TestStream_ErrorPayloadIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"title":"operational-disconnect","detail":"This stream has been disconnected"}]}`+"\n")
	}))
	defer srv.Close()

	s := NewStream(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	_, err := s.Next(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMalformedMessage)
	assert.Contains(t, err.Error(), "operational-disconnect")
}

func TestStream_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewStream(NewClient(srv.URL, "tok", srv.Client()), testLogger())
	_, err := s.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStream_CanceledContext(t *testing.T) {
	s := NewStream(NewClient("http://unused", "tok", nil), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
