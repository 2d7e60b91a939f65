package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/support-assistant/internal/assistant/biz"
	"github.com/kart-io/support-assistant/internal/assistant/metrics"
	"github.com/kart-io/support-assistant/internal/assistant/store"
	"github.com/kart-io/support-assistant/pkg/llm"
	"github.com/kart-io/support-assistant/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChat struct {
	reply string
	err   error
	calls int
}

func (s *stubChat) Chat(_ context.Context, _ []llm.Message) (string, error) { return s.reply, s.err }

func (s *stubChat) Generate(_ context.Context, _ string, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubChat) Name() string { return "stub" }

type stubCrawler struct{}

func (stubCrawler) Crawl(_ context.Context, _ string) ([]string, error) { return nil, nil }

type stubLoader struct{}

func (stubLoader) LoadDir(_ context.Context, _ string) []string { return nil }

type envelope struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    *biz.ClearResult `json:"data"`
}

func newTestEngine(t *testing.T, chat *stubChat, chunks ...string) (*gin.Engine, *biz.AnswerService) {
	t.Helper()
	ctx := context.Background()

	s := store.NewMemoryStore()
	if len(chunks) > 0 {
		_, err := s.Add(ctx, chunks)
		require.NoError(t, err)
	}

	m := metrics.New()
	reporter := biz.NewReporter(m)
	kb := biz.NewKnowledgeBase(s, stubCrawler{}, stubLoader{}, &biz.KnowledgeConfig{}, reporter)
	svc, err := biz.NewAnswerService(ctx, kb, biz.NewConversationLedger(), chat, nil, reporter)
	require.NoError(t, err)

	h := NewAssistantHandler(svc, s, m)
	r := gin.New()
	r.POST("/api/answer", h.Answer)
	r.POST("/api/clear-conversation", h.Clear)
	r.GET("/api/health", h.Health)
	r.GET("/api/stats", h.Stats)
	r.GET("/metrics", h.Metrics)
	return r, svc
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func answer(t *testing.T, r http.Handler, body string) *biz.Answer {
	t.Helper()
	w := do(r, http.MethodPost, "/api/answer", body)
	require.Equal(t, http.StatusOK, w.Code)

	var out biz.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return &out
}

func TestAnswer_Success(t *testing.T) {
	chat := &stubChat{reply: "  Market hours are 9:15 AM to 3:30 PM.  "}
	r, svc := newTestEngine(t, chat, "Trading hours for NSE and BSE are 9:15 AM to 3:30 PM.")

	w := do(r, http.MethodPost, "/api/answer", `{"question":"When does the market open?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out biz.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Market hours are 9:15 AM to 3:30 PM.", out.Answer)
	assert.NotEmpty(t, out.ConversationID)
	assert.Equal(t, 1, chat.calls)

	history, ok := svc.Ledger().History(out.ConversationID)
	require.True(t, ok)
	assert.Len(t, history, 2)
}

func TestAnswer_ReusesConversation(t *testing.T) {
	chat := &stubChat{reply: "ok"}
	r, svc := newTestEngine(t, chat, "some support content for answers")

	first := answer(t, r, `{"question":"first"}`)
	second := answer(t, r, `{"question":"second","conversation_id":"`+first.ConversationID+`"}`)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	history, _ := svc.Ledger().History(first.ConversationID)
	assert.Len(t, history, 4)
}

func TestAnswer_UnknownIDGetsFreshConversation(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{reply: "ok"}, "some support content for answers")

	out := answer(t, r, `{"question":"q","conversation_id":"made-up"}`)
	assert.NotEqual(t, "made-up", out.ConversationID)
	assert.NotEmpty(t, out.ConversationID)
}

func TestAnswer_ModelErrorStill200(t *testing.T) {
	chat := &stubChat{err: errors.New("quota exceeded")}
	r, _ := newTestEngine(t, chat, "some support content for answers")

	w := do(r, http.MethodPost, "/api/answer", `{"question":"hello?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out biz.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, biz.ApologyAnswer, out.Answer)
}

func TestAnswer_BlankQuestion(t *testing.T) {
	chat := &stubChat{reply: "unused"}
	r, _ := newTestEngine(t, chat, "content")

	for _, body := range []string{`{"question":"   "}`, `{}`, `{"conversation_id":"x"}`} {
		w := do(r, http.MethodPost, "/api/answer", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)

		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.NotZero(t, env.Code)
		assert.Equal(t, "Question cannot be empty", env.Message)
	}
	assert.Zero(t, chat.calls)
}

func TestAnswer_MalformedBody(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{}, "content")

	w := do(r, http.MethodPost, "/api/answer", `{"question":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClear(t *testing.T) {
	chat := &stubChat{reply: "ok"}
	r, svc := newTestEngine(t, chat, "content for the assistant")

	a := answer(t, r, `{"question":"q"}`).ConversationID
	b := svc.Ledger().GetOrCreate("")

	body := `{"conversation_ids":["` + a + `","missing"],"conversation_id":"` + b + `"}`
	w := do(r, http.MethodPost, "/api/clear-conversation", body)
	require.Equal(t, http.StatusOK, w.Code)

	var out ClearResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, []string{a, b}, out.Details.Cleared)
	assert.Equal(t, []string{"missing"}, out.Details.NotFound)

	history, ok := svc.Ledger().History(a)
	assert.True(t, ok)
	assert.Empty(t, history)
}

func TestClear_NoneFound(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{}, "content")

	w := do(r, http.MethodPost, "/api/clear-conversation", `{"conversation_ids":["x","y"]}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Data)
	assert.Empty(t, env.Data.Cleared)
	assert.Equal(t, []string{"x", "y"}, env.Data.NotFound)
}

func TestClear_NoIDs(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{}, "content")

	for _, body := range []string{`{}`, `{"conversation_ids":[]}`, `{"conversation_ids":[""]}`} {
		w := do(r, http.MethodPost, "/api/clear-conversation", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestClearRequest_IDs(t *testing.T) {
	tests := []struct {
		name string
		req  ClearRequest
		want []string
	}{
		{"list only", ClearRequest{ConversationIDs: []string{"a", "b"}}, []string{"a", "b"}},
		{"single only", ClearRequest{ConversationID: "a"}, []string{"a"}},
		{"single merged", ClearRequest{ConversationIDs: []string{"a"}, ConversationID: "b"}, []string{"a", "b"}},
		{"single already present", ClearRequest{ConversationIDs: []string{"a", "b"}, ConversationID: "a"}, []string{"a", "b"}},
		{"empty values dropped", ClearRequest{ConversationIDs: []string{"", "a"}}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.IDs())
		})
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{})

	w := do(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStats(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{reply: "ok"}, "first chunk", "second chunk")
	do(r, http.MethodPost, "/api/answer", `{"question":"q"}`)

	w := do(r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Code int `json:"code"`
		Data struct {
			Documents struct {
				Chunks  int    `json:"chunks"`
				Backend string `json:"backend"`
			} `json:"documents"`
			Conversations int `json:"conversations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Zero(t, env.Code)
	assert.Equal(t, 2, env.Data.Documents.Chunks)
	assert.Equal(t, store.BackendMemory, env.Data.Documents.Backend)
	assert.Equal(t, 1, env.Data.Conversations)
}

func TestMetrics(t *testing.T) {
	r, _ := newTestEngine(t, &stubChat{reply: "ok"}, "chunk")
	do(r, http.MethodPost, "/api/answer", `{"question":"q"}`)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "support_assistant_answers_total 1")
	assert.Contains(t, w.Body.String(), "support_assistant_llm_calls_total 1")
}
