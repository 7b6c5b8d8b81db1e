package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/tests"
)

type request struct {
	path   string
	auth   string
	body   map[string]interface{}
	called bool
}

// newServer answers every request with status, contentType and body, recording the request.
func newServer(t *testing.T, status int, contentType, body string) (*Client, *request) {
	t.Helper()
	got := &request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.called = true
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got.body)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	conf := core.AIConfig{
		APIBase:     srv.URL,
		AIBackend:   srv.URL,
		FunctionURL: srv.URL + "/functions/document-ai",
		Timeout:     5 * time.Second,
	}
	return NewClient(conf, testutil.NewLogger()), got
}

const jsonType = "application/json; charset=utf-8"

func TestClient_GenerateFlashcards(t *testing.T) {
	tests := []struct {
		name        string
		in          GenerationInput
		status      int
		contentType string
		body        string
		want        []flashcard.Card
		wantErr     error
		wantMsg     string
		wantBody    map[string]interface{}
		noRequest   bool
	}{
		{
			name:        "topic",
			in:          GenerationInput{Topic: " Photosynthesis "},
			status:      http.StatusOK,
			contentType: jsonType,
			body:        `{"flashcards":[{"front":"Chlorophyll","back":"Green pigment"},{"front":"Output","back":"Glucose"}]}`,
			want:        []flashcard.Card{{Front: "Chlorophyll", Back: "Green pigment"}, {Front: "Output", Back: "Glucose"}},
			wantBody:    map[string]interface{}{"topic": "Photosynthesis"},
		},
		{
			name:        "content",
			in:          GenerationInput{Content: "cells divide"},
			status:      http.StatusOK,
			contentType: jsonType,
			body:        `{"flashcards":[{"front":"Mitosis","back":"Cell division"}]}`,
			want:        []flashcard.Card{{Front: "Mitosis", Back: "Cell division"}},
			wantBody:    map[string]interface{}{"content": "cells divide"},
		},
		{
			name:        "empty array",
			in:          GenerationInput{Topic: "Photosynthesis"},
			status:      http.StatusOK,
			contentType: jsonType,
			body:        `{"flashcards":[]}`,
			wantErr:     ErrNoFlashcards,
		},
		{
			name:        "missing field",
			in:          GenerationInput{Topic: "Photosynthesis"},
			status:      http.StatusOK,
			contentType: jsonType,
			body:        `{"cards":[{"front":"a","back":"b"}]}`,
			wantErr:     ErrNoFlashcards,
		},
		{
			name:        "blank back",
			in:          GenerationInput{Topic: "Photosynthesis"},
			status:      http.StatusOK,
			contentType: jsonType,
			body:        `{"flashcards":[{"front":"Chlorophyll","back":"Green pigment"},{"front":"Output","back":" "}]}`,
			wantErr:     ErrNoFlashcards,
		},
		{
			name:        "html page",
			in:          GenerationInput{Topic: "Photosynthesis"},
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "<html><body>502 Bad Gateway</body></html>",
			wantErr:     ErrNonJSONResponse,
		},
		{
			name:        "server error body",
			in:          GenerationInput{Content: "x"},
			status:      http.StatusTooManyRequests,
			contentType: jsonType,
			body:        `{"error":"quota exceeded"}`,
			wantMsg:     "quota exceeded",
		},
		{
			name:        "server error without message",
			in:          GenerationInput{Content: "x"},
			status:      http.StatusInternalServerError,
			contentType: jsonType,
			body:        `{}`,
			wantMsg:     "server error: 500",
		},
		{name: "no input", in: GenerationInput{Topic: "  "}, wantErr: ErrInvalidInput, noRequest: true},
		{name: "both inputs", in: GenerationInput{Topic: "a", Content: "b"}, wantErr: ErrInvalidInput, noRequest: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newServer(t, tt.status, tt.contentType, tt.body)
			cards, err := c.GenerateFlashcards(context.Background(), tt.in)

			assert.Equal(t, !tt.noRequest, got.called)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cards)
			case tt.wantMsg != "":
				var srvErr *ServerError
				require.True(t, errors.As(err, &srvErr), "want *ServerError, got %v", err)
				assert.Equal(t, tt.status, srvErr.Status)
				assert.Equal(t, tt.wantMsg, srvErr.Message)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, cards)
				assert.Equal(t, "/api/flashcards/generate", got.path)
				assert.Equal(t, tt.wantBody, got.body)
			}
		})
	}
}

func TestClient_GenerateQuiz(t *testing.T) {
	t.Run("html with status 200", func(t *testing.T) {
		c, _ := newServer(t, http.StatusOK, "text/html; charset=utf-8", "<!doctype html><p>proxy error</p>")
		questions, err := c.GenerateQuiz(context.Background(), "The mitochondria is the powerhouse of the cell.")
		assert.ErrorIs(t, err, ErrNonJSONResponse)
		assert.Contains(t, err.Error(), "status 200")
		assert.Contains(t, err.Error(), "proxy error")
		assert.Nil(t, questions)
	})

	t.Run("empty quiz", func(t *testing.T) {
		c, _ := newServer(t, http.StatusOK, jsonType, `{"quiz":[]}`)
		_, err := c.GenerateQuiz(context.Background(), "content")
		assert.ErrorIs(t, err, ErrNoQuiz)
	})

	unusable := []struct {
		name string
		body string
	}{
		{name: "blank question", body: `{"quiz":[{}]}`},
		{name: "answer not an option", body: `{"quiz":[{"type":"multiple-choice","question":"2+2?","options":["3","5"],"answer":"4"}]}`},
		{name: "unknown type", body: `{"quiz":[{"type":"essay","question":"Why?"}]}`},
	}
	for _, tt := range unusable {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, http.StatusOK, jsonType, tt.body)
			questions, err := c.GenerateQuiz(context.Background(), "content")
			assert.ErrorIs(t, err, ErrNoQuiz)
			assert.Nil(t, questions)
		})
	}

	t.Run("ok", func(t *testing.T) {
		c, got := newServer(t, http.StatusOK, jsonType,
			`{"quiz":[{"type":"multiple-choice","question":"2+2?","options":["3","4"],"answer":"4"},{"type":"open","question":"Why?","answer":"Because"}]}`)
		questions, err := c.GenerateQuiz(context.Background(), "arithmetic")
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, []string{"3", "4"}, questions[0].Options)
		assert.Equal(t, "/api/quiz/generate", got.path)
		assert.Equal(t, map[string]interface{}{"content": "arithmetic"}, got.body)
	})
}

func TestClient_Ask(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{name: "answer", status: http.StatusOK, contentType: jsonType, body: `{"answer":"42"}`, want: "42"},
		{name: "server error", status: http.StatusInternalServerError, contentType: jsonType, body: `{"error":"boom"}`, want: FallbackAnswer},
		{name: "html", status: http.StatusOK, contentType: "text/html", body: "<html/>", want: FallbackAnswer},
		{name: "blank answer", status: http.StatusOK, contentType: jsonType, body: `{"answer":" "}`, want: FallbackAnswer},
		{name: "bad json", status: http.StatusOK, contentType: jsonType, body: `{"answer":`, want: FallbackAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newServer(t, tt.status, tt.contentType, tt.body)
			assert.Equal(t, tt.want, c.Ask(context.Background(), "What is the answer?"))
			assert.Equal(t, "/api/ask", got.path)
		})
	}

	t.Run("failure without logger", func(t *testing.T) {
		c, _ := newServer(t, http.StatusInternalServerError, jsonType, `{"error":"boom"}`)
		c.logger = nil
		assert.Equal(t, FallbackAnswer, c.Ask(context.Background(), "What is the answer?"))
	})
}

func TestClient_DocumentAction(t *testing.T) {
	t.Run("not processed", func(t *testing.T) {
		c, got := newServer(t, http.StatusOK, jsonType, `{"result":"summary"}`)
		_, err := c.DocumentAction(context.Background(), "tok", document.ActionSummarize, "  ")
		assert.ErrorIs(t, err, document.ErrNotProcessed)
		assert.False(t, got.called)
	})

	t.Run("unknown action", func(t *testing.T) {
		c, got := newServer(t, http.StatusOK, jsonType, `{"result":"summary"}`)
		_, err := c.DocumentAction(context.Background(), "tok", document.Action("translate"), "text")
		assert.ErrorIs(t, err, document.ErrUnknownAction)
		assert.False(t, got.called)
	})

	t.Run("summarize", func(t *testing.T) {
		c, got := newServer(t, http.StatusOK, jsonType, `{"result":"A short summary."}`)
		res, err := c.DocumentAction(context.Background(), "tok", document.ActionSummarize, "long text")
		require.NoError(t, err)
		assert.Equal(t, "A short summary.", res)
		assert.Equal(t, "Bearer tok", got.auth)
		assert.Equal(t, "/functions/document-ai", got.path)
		assert.Equal(t, map[string]interface{}{"action": "summarize", "content": "long text"}, got.body)
	})

	t.Run("structured result", func(t *testing.T) {
		c, _ := newServer(t, http.StatusOK, jsonType, `{"result":[{"front":"a","back":"b"}]}`)
		res, err := c.DocumentAction(context.Background(), "tok", document.ActionFlashcards, "text")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"front":"a","back":"b"}]`, res)
	})

	t.Run("unauthorized", func(t *testing.T) {
		c, _ := newServer(t, http.StatusUnauthorized, jsonType, `{"error":"invalid JWT"}`)
		_, err := c.DocumentAction(context.Background(), "expired", document.ActionQuiz, "text")
		var srvErr *ServerError
		require.True(t, errors.As(err, &srvErr))
		assert.Equal(t, http.StatusUnauthorized, srvErr.Status)
	})
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/problem+json; charset=utf-8"))
	assert.False(t, isJSON("text/html"))
	assert.False(t, isJSON(""))
}
