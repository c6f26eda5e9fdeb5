package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/nnlgsakib/DataFee-oracle/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	runCtx  context.Context
	last    *app.CycleReport
	runErr  error
	report  app.CycleReport
	entries []source.Endpoint
}

func (f *fakeService) RunCycle(ctx context.Context) (app.CycleReport, error) {
	f.runCtx = ctx
	return f.report, f.runErr
}

func (f *fakeService) LastReport() (app.CycleReport, bool) {
	if f.last == nil {
		return app.CycleReport{}, false
	}
	return *f.last, true
}

func (f *fakeService) Endpoints() []source.Endpoint { return f.entries }

func serve(t *testing.T, svc CycleService, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	engine := NewEngine(NewCycleHandler(svc, nil), http.NotFoundHandler())
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLastCycleNotFound(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodGet, "/api/v1/cycles/last")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastCycle(t *testing.T) {
	last := app.CycleReport{ID: "c-1", Collected: 2, Submission: &submit.Result{Status: submit.StatusSubmitted}}
	rec := serve(t, &fakeService{last: &last}, http.MethodGet, "/api/v1/cycles/last")
	require.Equal(t, http.StatusOK, rec.Code)

	var got app.CycleReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, 2, got.Collected)
	require.NotNil(t, got.Submission)
	assert.Equal(t, submit.StatusSubmitted, got.Submission.Status)
}

func TestRunCycle(t *testing.T) {
	tests := []struct {
		name string
		svc  *fakeService
		code int
	}{
		{name: "ok", svc: &fakeService{report: app.CycleReport{ID: "c-2"}}, code: http.StatusOK},
		{name: "busy", svc: &fakeService{runErr: app.ErrCycleRunning}, code: http.StatusConflict},
		{name: "panic", svc: &fakeService{runErr: errors.Join(app.ErrCyclePanic, errors.New("boom"))}, code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.svc, http.MethodPost, "/api/v1/cycles/run")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestEndpoints(t *testing.T) {
	svc := &fakeService{entries: []source.Endpoint{
		{URL: "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd", Selector: "bitcoin", Headers: map[string]string{"x-key": "secret"}},
	}}
	rec := serve(t, svc, http.MethodGet, "/api/v1/endpoints")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selector":"bitcoin"`)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestRunCycleSurvivesClientDisconnect(t *testing.T) {
	svc := &fakeService{report: app.CycleReport{ID: "c-3"}}
	engine := NewEngine(NewCycleHandler(svc, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cycles/run", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.NotNil(t, svc.runCtx)
	assert.NoError(t, svc.runCtx.Err())
	assert.Equal(t, http.StatusOK, rec.Code)
}
