package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/studybuddy/apps/api/echo"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/services/ai"
	"github.com/trezcool/studybuddy/tests"
)

// fakeAI answers without any network call and records document actions.
type fakeAI struct {
	mu      sync.Mutex
	actions []string
	tokens  []string
}

var _ AIService = (*fakeAI)(nil)

func (f *fakeAI) GenerateFlashcards(_ context.Context, in ai.GenerationInput) ([]flashcard.Card, error) {
	if (in.Topic == "") == (in.Content == "") {
		return nil, ai.ErrInvalidInput
	}
	return []flashcard.Card{{Front: "Q1", Back: "A1"}}, nil
}

func (f *fakeAI) GenerateQuiz(_ context.Context, content string) ([]quiz.Question, error) {
	if content == "" {
		return nil, ai.ErrNoQuiz
	}
	return []quiz.Question{{Type: quiz.TypeOpen, Question: "Why?", Answer: "Because."}}, nil
}

func (f *fakeAI) Ask(_ context.Context, question string) string {
	if question == "" {
		return ai.FallbackAnswer
	}
	return "answer: " + question
}

func (f *fakeAI) DocumentAction(_ context.Context, token string, action document.Action, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, string(action))
	f.tokens = append(f.tokens, token)
	return string(action) + ": " + content, nil
}

func (f *fakeAI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.actions)
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendCalendar(_ context.Context, userID string) error {
	m.sent = append(m.sent, userID)
	return nil
}

type testApp struct {
	env    *testutil.Env
	server Server
	ai     *fakeAI
	mailer *fakeMailer
}

func setup(t *testing.T) *testApp {
	t.Helper()
	env := testutil.Setup(t)
	app := &testApp{env: env, ai: new(fakeAI), mailer: new(fakeMailer)}
	app.server = NewServer(ServerDeps{
		Conf:           env.Conf,
		Logger:         env.Logger,
		Client:         env.Client,
		Sessions:       env.Services.Users,
		AI:             app.ai,
		Calendars:      app.mailer,
		Translator:     env.Translator,
		DisableReqLogs: true,
	})
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) do(t *testing.T, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(method, path, token, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

// upload posts a multipart file to the documents of courseID.
func (app *testApp) upload(t *testing.T, token, courseID, name, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + name + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("tags", "week1"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/courses/"+courseID+"/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, env *testutil.Env, usr user.User) string {
	t.Helper()
	sess, err := env.Services.Users.SignIn(context.Background(), user.Credentials{Email: usr.Email, Password: testutil.Password})
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return sess.Token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func unmarshal[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal(%s): %v", rec.Body.String(), err)
	}
	return v
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.method == "" {
				tt.method = http.MethodGet
			}
			if tt.wantCode == 0 {
				tt.wantCode = http.StatusOK
			}
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestServer_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to StudyBuddy API!", rec.Body.String())

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}
