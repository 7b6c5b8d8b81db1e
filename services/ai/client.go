// Package ai calls the generation endpoints (flashcards, quiz), the chat assistant and the
// document AI function. Responses are validated before anything is handed to callers.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
)

const FallbackAnswer = "Sorry, I could not answer that right now. Please try again in a moment."

var (
	ErrNonJSONResponse = errors.New("server returned non-JSON response, the AI server may be down or misconfigured")
	ErrNoFlashcards    = errors.New("no flashcards were generated, try a different topic or content")
	ErrNoQuiz          = errors.New("no quiz questions were generated, try different content")
	ErrInvalidInput    = errors.New("provide either a topic or some content")
	ErrMissingToken    = errors.New("document AI requires a session token")
	ErrEmptyResult     = errors.New("document AI returned no result")
)

// ServerError is a non-2xx answer carrying a JSON error body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studybuddy",
		Subsystem: "ai",
		Name:      "requests_total",
		Help:      "AI requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	emptyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studybuddy",
		Subsystem: "ai",
		Name:      "empty_results_total",
		Help:      "Successful AI answers that held nothing usable",
	}, []string{"endpoint"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "studybuddy",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "AI request latency",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})
)

// endpoints (metric labels)
const (
	endpointFlashcards = "flashcards"
	endpointQuiz       = "quiz"
	endpointAsk        = "ask"
	endpointDocument   = "document"
)

type Client struct {
	conf    core.AIConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  core.Logger
}

func NewClient(conf core.AIConfig, logger core.Logger) *Client {
	limit, burst := rate.Inf, 1
	if conf.RatePerSecond > 0 {
		limit = rate.Limit(conf.RatePerSecond)
		burst = int(conf.RatePerSecond * 2)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		conf:    conf,
		http:    &http.Client{Timeout: conf.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// GenerationInput holds exactly one of Topic and Content: the server picks its strategy from
// the field that is set.
type GenerationInput struct {
	Topic   string `json:"topic,omitempty"`
	Content string `json:"content,omitempty"`
}

func (in GenerationInput) clean() (GenerationInput, error) {
	in.Topic, in.Content = strings.TrimSpace(in.Topic), strings.TrimSpace(in.Content)
	if (in.Topic == "") == (in.Content == "") {
		return in, ErrInvalidInput
	}
	return in, nil
}

func (c *Client) GenerateFlashcards(ctx context.Context, in GenerationInput) ([]flashcard.Card, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}
	var resp struct {
		Flashcards []flashcard.Card `json:"flashcards"`
	}
	if err = c.post(ctx, endpointFlashcards, c.conf.APIBase+"/api/flashcards/generate", "", in, &resp); err != nil {
		return nil, err
	}
	if len(resp.Flashcards) == 0 {
		emptyTotal.WithLabelValues(endpointFlashcards).Inc()
		return nil, ErrNoFlashcards
	}
	for i, card := range resp.Flashcards {
		if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
			emptyTotal.WithLabelValues(endpointFlashcards).Inc()
			return nil, errors.Wrapf(ErrNoFlashcards, "flashcard %d has a blank side", i+1)
		}
	}
	return resp.Flashcards, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, content string) ([]quiz.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	var resp struct {
		Quiz []quiz.Question `json:"quiz"`
	}
	body := struct {
		Content string `json:"content"`
	}{content}
	if err := c.post(ctx, endpointQuiz, c.conf.APIBase+"/api/quiz/generate", "", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Quiz) == 0 {
		emptyTotal.WithLabelValues(endpointQuiz).Inc()
		return nil, ErrNoQuiz
	}
	if err := quiz.Validate(resp.Quiz); err != nil {
		emptyTotal.WithLabelValues(endpointQuiz).Inc()
		return nil, errors.Wrap(ErrNoQuiz, err.Error())
	}
	return resp.Quiz, nil
}

// Ask sends a chat question. Failures are logged and answered with FallbackAnswer.
func (c *Client) Ask(ctx context.Context, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return FallbackAnswer
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	body := struct {
		Question string `json:"question"`
	}{question}
	if err := c.post(ctx, endpointAsk, c.conf.AIBackend+"/api/ask", "", body, &resp); err != nil {
		if c.logger != nil {
			c.logger.Warn("ai.Ask: "+err.Error(), err)
		}
		return FallbackAnswer
	}
	if strings.TrimSpace(resp.Answer) == "" {
		return FallbackAnswer
	}
	return resp.Answer
}

// DocumentAction runs action on a document's extracted content, authenticated with the
// user's session token. Empty content fails before any request is sent.
func (c *Client) DocumentAction(ctx context.Context, token string, action document.Action, content string) (string, error) {
	if _, err := document.ParseAction(string(action)); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", document.ErrNotProcessed
	}
	if token == "" {
		return "", ErrMissingToken
	}
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	body := struct {
		Action  document.Action `json:"action"`
		Content string          `json:"content"`
	}{action, content}
	if err := c.post(ctx, endpointDocument, c.conf.FunctionURL, token, body, &resp); err != nil {
		return "", err
	}
	result := resultText(resp.Result)
	if result == "" {
		emptyTotal.WithLabelValues(endpointDocument).Inc()
		return "", ErrEmptyResult
	}
	return result, nil
}

// resultText unquotes string results and keeps structured ones (eg. a quiz) as JSON text.
func resultText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// post sends body as JSON and decodes a successful JSON answer into out.
// The content type is checked before the body is parsed: a non-JSON answer (eg. an HTML
// error page from a proxy) is never decoded.
func (c *Client) post(ctx context.Context, endpoint, url, token string, body, out interface{}) (err error) {
	outcome := "transport"
	start := time.Now()
	defer func() {
		requestsTotal.WithLabelValues(endpoint, outcome).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err = c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "waiting for rate limiter")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s endpoint", endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isJSON(resp.Header.Get("Content-Type")) {
		outcome = "non_json"
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return errors.Wrapf(ErrNonJSONResponse, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "server_error"
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := strings.TrimSpace(errBody.Error)
		if msg == "" {
			msg = fmt.Sprintf("server error: %d", resp.StatusCode)
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "bad_json"
		return errors.Wrap(err, "decoding response")
	}
	outcome = "ok"
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
