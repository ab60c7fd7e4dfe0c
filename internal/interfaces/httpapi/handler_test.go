package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/riskibarqy/match-intake/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedIDGenerator struct{ id string }

func (g fixedIDGenerator) NewID() (string, error) { return g.id, nil }

type captureSubmitter struct {
	mu       sync.Mutex
	payloads []application.SubmissionPayload
}

func (s *captureSubmitter) Submit(_ context.Context, payload application.SubmissionPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *captureSubmitter) {
	t.Helper()
	submitter := &captureSubmitter{}
	svc := usecase.NewIntakeService(
		memory.NewApplicationRepository(),
		submitter,
		fixedIDGenerator{id: "intake-1"},
		time.Hour,
		logging.NewNop(),
	)
	return NewRouter(NewHandler(svc, logging.NewNop()), logging.NewNop(), []string{"*"}), submitter
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func errorReason(env envelope) string {
	if env.Error == nil || len(env.Error.Errors) == 0 {
		return ""
	}
	return env.Error.Errors[0].Reason
}

func TestHandler_Catalog(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/formations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []formationDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 5)
	assert.Equal(t, "4-3-3", list.Data[0].ID)
	assert.Len(t, list.Data[0].Slots, 11)

	code, env := doRequest(t, h, http.MethodGet, "/v1/formations/4-2-3-1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "4-2-3-1", env.Data["id"])

	code, env = doRequest(t, h, http.MethodGet, "/v1/formations/3-3-3-1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "notFound", errorReason(env))

	req = httptest.NewRequest(http.MethodGet, "/v1/plans", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price_krw":60000`)
}

func TestHandler_RosterFlow(t *testing.T) {
	h, submitter := newTestRouter(t)

	code, env := doRequest(t, h, http.MethodPost, "/v1/intakes", "")
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "intake-1", env.Data["id"])

	base := "/v1/intakes/intake-1"

	code, env = doRequest(t, h, http.MethodPost, base+"/roster/session", `{"section":"starting","index":2}`)
	require.Equal(t, http.StatusOK, code)
	session := env.Data["session"].(map[string]any)
	assert.Equal(t, "editing_starting", session["mode"])
	assert.Equal(t, "CB", session["draft"].(map[string]any)["position"])

	code, env = doRequest(t, h, http.MethodPost, base+"/roster/session/commit", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalidPlayer", errorReason(env))

	code, _ = doRequest(t, h, http.MethodPatch, base+"/roster/session", `{"name":"Kim","number":"7"}`)
	require.Equal(t, http.StatusOK, code)
	code, env = doRequest(t, h, http.MethodPost, base+"/roster/session/commit", "")
	require.Equal(t, http.StatusOK, code)
	counts := env.Data["counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["starting_filled"])
	assert.EqualValues(t, 11, counts["starting_required"])

	code, env = doRequest(t, h, http.MethodPatch, base+"/roster/session", `{"name":"ghost"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "noActiveSession", errorReason(env))

	code, env = doRequest(t, h, http.MethodPost, base+"/roster/finalize", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "insufficientRoster", errorReason(env))
	assert.Contains(t, env.Error.Message, "at least 11 starting players are required, 1 assigned")

	for i := 0; i < 11; i++ {
		if i == 2 {
			continue
		}
		code, _ = doRequest(t, h, http.MethodPost, base+"/roster/session", fmt.Sprintf(`{"section":"starting","index":%d}`, i))
		require.Equal(t, http.StatusOK, code)
		code, _ = doRequest(t, h, http.MethodPatch, base+"/roster/session", fmt.Sprintf(`{"name":"Player %d","number":"%d"}`, i, i+10))
		require.Equal(t, http.StatusOK, code)
		code, _ = doRequest(t, h, http.MethodPost, base+"/roster/session/commit", "")
		require.Equal(t, http.StatusOK, code)
	}

	code, env = doRequest(t, h, http.MethodGet, base+"/roster?q=kim", "")
	require.Equal(t, http.StatusOK, code)
	entries := env.Data["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "starting", entries[0].(map[string]any)["section"])
	assert.EqualValues(t, 2, entries[0].(map[string]any)["index"])

	code, env = doRequest(t, h, http.MethodPost, base+"/roster/finalize", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "4-3-3", env.Data["formation"])
	assert.Len(t, env.Data["players"], 11)
	assert.Len(t, env.Data["substitutes"], 0)

	code, env = doRequest(t, h, http.MethodPost, base+"/submit", `{"payment_confirmed":true,"refund_policy_confirmed":true,"disclaimer_agreed":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "notReadyForSubmit", errorReason(env))

	code, env = doRequest(t, h, http.MethodPut, base+"/match", `{
		"plan":"TEAM_INTEGRATED",
		"match_date":"2026-03-21",
		"kickoff_time":"19:00",
		"location":"Incheon",
		"home_team":"FC Han",
		"away_team":"Busan United",
		"video_url_1":"https://video.example.com/a"
	}`)
	require.Equal(t, http.StatusOK, code, env)
	assert.Equal(t, true, env.Data["can_proceed"])

	code, env = doRequest(t, h, http.MethodGet, base+"/review", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 60000, env.Data["plan"].(map[string]any)["price_krw"])

	code, env = doRequest(t, h, http.MethodPost, base+"/submit", `{"payment_confirmed":true,"refund_policy_confirmed":true,"disclaimer_agreed":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "submitted", env.Data["status"])
	require.Len(t, submitter.payloads, 1)
	assert.Equal(t, "TEAM_INTEGRATED", submitter.payloads[0].Plan)

	code, env = doRequest(t, h, http.MethodPost, base+"/submit", `{"payment_confirmed":true,"refund_policy_confirmed":true,"disclaimer_agreed":true}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "alreadySubmitted", errorReason(env))
}

func TestHandler_FormationChangeAndEntryDelete(t *testing.T) {
	h, _ := newTestRouter(t)
	code, _ := doRequest(t, h, http.MethodPost, "/v1/intakes", "")
	require.Equal(t, http.StatusCreated, code)
	base := "/v1/intakes/intake-1"

	code, _ = doRequest(t, h, http.MethodPost, base+"/roster/session", `{"section":"bench","index":0}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = doRequest(t, h, http.MethodPatch, base+"/roster/session", `{"name":"Lee","number":"12"}`)
	require.Equal(t, http.StatusOK, code)
	code, env := doRequest(t, h, http.MethodPost, base+"/roster/session/commit", "")
	require.Equal(t, http.StatusOK, code)
	bench := env.Data["bench"].([]any)
	require.Len(t, bench, 7)
	assert.Equal(t, "SUB", bench[0].(map[string]any)["player"].(map[string]any)["position"])

	code, env = doRequest(t, h, http.MethodPut, base+"/roster/formation", `{"formation":"3-5-2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3-5-2", env.Data["formation"])
	assert.EqualValues(t, 1, env.Data["counts"].(map[string]any)["bench_filled"])

	code, env = doRequest(t, h, http.MethodPut, base+"/roster/formation", `{"formation":"5-5-0"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknownFormation", errorReason(env))

	code, env = doRequest(t, h, http.MethodDelete, base+"/roster/entries/bench/0", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, env.Data["counts"].(map[string]any)["bench_filled"])

	code, env = doRequest(t, h, http.MethodDelete, base+"/roster/entries/bench/0", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "slotEmpty", errorReason(env))

	code, env = doRequest(t, h, http.MethodDelete, base+"/roster/entries/bench/7", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalidInput", errorReason(env))

	code, env = doRequest(t, h, http.MethodDelete, base+"/roster/entries/reserve/0", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalidInput", errorReason(env))
}

func TestHandler_RejectsBadPayloads(t *testing.T) {
	h, _ := newTestRouter(t)
	code, _ := doRequest(t, h, http.MethodPost, "/v1/intakes", "")
	require.Equal(t, http.StatusCreated, code)
	base := "/v1/intakes/intake-1"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "unknown field", method: http.MethodPost, path: base + "/roster/session", body: `{"section":"starting","index":0,"extra":1}`},
		{name: "missing index", method: http.MethodPost, path: base + "/roster/session", body: `{"section":"starting"}`},
		{name: "bad section", method: http.MethodPost, path: base + "/roster/session", body: `{"section":"reserve","index":0}`},
		{name: "index out of range", method: http.MethodPost, path: base + "/roster/session", body: `{"section":"starting","index":11}`},
		{name: "malformed json", method: http.MethodPut, path: base + "/match", body: `{"plan":`},
		{name: "invalid match date", method: http.MethodPut, path: base + "/match", body: `{"plan":"TEAM_DATA","match_date":"tomorrow","kickoff_time":"10:00","location":"x","home_team":"a","away_team":"b","video_url_1":"https://v.example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := doRequest(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "invalidInput", errorReason(env))
		})
	}

	code, env := doRequest(t, h, http.MethodGet, "/v1/intakes/missing/roster", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "notFound", errorReason(env))
}

func TestHandler_ResetIntake(t *testing.T) {
	h, _ := newTestRouter(t)
	code, _ := doRequest(t, h, http.MethodPost, "/v1/intakes", "")
	require.Equal(t, http.StatusCreated, code)

	code, _ = doRequest(t, h, http.MethodDelete, "/v1/intakes/intake-1", "")
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, h, http.MethodGet, "/v1/intakes/intake-1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "notFound", errorReason(env))
}
