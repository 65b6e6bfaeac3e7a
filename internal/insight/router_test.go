package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refineryiq/server/internal/alerts"
	"github.com/refineryiq/server/internal/llm"
	"github.com/refineryiq/server/internal/telemetry"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	lastReq  llm.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	return s.response, s.err
}

type fakeCache struct {
	entries map[string]string
}

func (f *fakeCache) GetResponse(_ context.Context, key string) (string, bool) {
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeCache) SetResponse(_ context.Context, key, response string) {
	f.entries[key] = response
}

type recordingAudit struct {
	records []Record
}

func (r *recordingAudit) Record(_ context.Context, rec Record) {
	r.records = append(r.records, rec)
}

func fixtureStore() *telemetry.Store {
	return telemetry.NewStoreFromData(telemetry.Data{
		Units: []telemetry.RefineryUnit{
			{UnitID: "CDU-01", Name: "Crude Distillation Unit 1", Status: telemetry.StatusOnline, Capacity: 100000, CurrentLoad: 90000, Efficiency: 92},
			{UnitID: "COK-01", Name: "Delayed Coker", Status: telemetry.StatusMaintenance, Capacity: 35000, CurrentLoad: 1400, Efficiency: 60},
		},
		Samples: []telemetry.Sample{
			{UnitID: "CDU-01", Date: "2026-08-30", Energy: 84, Production: 1000},
		},
		KPIs: []telemetry.KPI{
			{Name: "Overall SEC", Value: 0.084, Unit: "MWh/bbl", Trend: telemetry.TrendDown, ChangePercent: -2.3},
		},
		Alerts: []telemetry.Alert{
			{ID: "a1", UnitID: "CDU-01", Type: telemetry.AlertCritical, Timestamp: time.Unix(100, 0)},
			{ID: "a2", UnitID: "COK-01", Type: telemetry.AlertInfo, Timestamp: time.Unix(90, 0)},
			{ID: "a3", UnitID: "CDU-01", Type: telemetry.AlertWarning, Timestamp: time.Unix(80, 0), Acknowledged: true},
		},
		Recommendations: []telemetry.Recommendation{
			{ID: "r1", Title: "first high", Priority: telemetry.PriorityHigh, PotentialSavings: "$1M/year"},
			{ID: "r2", Title: "second high", Priority: telemetry.PriorityHigh, PotentialSavings: "$800K/year"},
			{ID: "r3", Title: "a medium", Priority: telemetry.PriorityMedium, PotentialSavings: "$500K/year"},
			{ID: "r4", Title: "a low", Priority: telemetry.PriorityLow, PotentialSavings: "$100K/year"},
		},
		Predictions: []telemetry.Prediction{
			{Date: "2026-09-01", Predicted: 38000, LowerBound: 36100, UpperBound: 39900},
		},
	})
}

func newTestRouter(store *telemetry.Store, completer Completer, hasKey bool) *Router {
	return NewRouter(store, alerts.NewManager(store), completer, hasKey)
}

func TestQuery_MissingKeyShortCircuits(t *testing.T) {
	stub := &stubCompleter{response: "should not be called"}
	r := newTestRouter(fixtureStore(), stub, false)

	resp := r.Query(context.Background(), "What's the current SEC?")

	assert.Zero(t, stub.calls, "no network call may happen without a credential")
	assert.Contains(t, resp.Response, "not configured")
	assert.Nil(t, resp.Data)
}

func TestQuery_FallbackEmbedsLiveValues(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	r := newTestRouter(fixtureStore(), stub, true)

	resp := r.Query(context.Background(), "how is the plant doing?")

	// Contract never fails; the degraded answer carries live numbers.
	assert.Contains(t, resp.Response, "2 unacknowledged alerts")
	assert.Contains(t, resp.Response, "0.0840")
	assert.Contains(t, resp.Response, "92.0%")
}

func TestQuery_FallbackCountTracksAcknowledgment(t *testing.T) {
	store := fixtureStore()
	mgr := alerts.NewManager(store)
	stub := &stubCompleter{err: errors.New("boom")}
	r := NewRouter(store, mgr, stub, true)

	require.NoError(t, mgr.Acknowledge("a1"))
	resp := r.Query(context.Background(), "plant status")
	assert.Contains(t, resp.Response, "1 unacknowledged alerts")
}

func TestQuery_DomainQueryShipsBoundedSnapshot(t *testing.T) {
	stub := &stubCompleter{response: "all good"}
	r := newTestRouter(fixtureStore(), stub, true)

	r.Query(context.Background(), "What's the current refinery efficiency?")

	require.Equal(t, 1, stub.calls)
	system := stub.lastReq.SystemPrompt
	assert.Contains(t, system, "plant snapshot")
	assert.Contains(t, system, "CDU-01")
	// The snapshot is capped at three recommendations.
	assert.Contains(t, system, "first high")
	assert.Contains(t, system, "a medium")
	assert.NotContains(t, system, "a low")
}

func TestQuery_GeneralQueryShipsNoSnapshot(t *testing.T) {
	stub := &stubCompleter{response: "a joke"}
	r := newTestRouter(fixtureStore(), stub, true)

	r.Query(context.Background(), "tell me a joke")

	require.Equal(t, 1, stub.calls)
	assert.NotContains(t, stub.lastReq.SystemPrompt, "plant snapshot")
}

func TestQuery_AttachesAlertSlice(t *testing.T) {
	stub := &stubCompleter{response: "two alerts are active"}
	r := newTestRouter(fixtureStore(), stub, true)

	resp := r.Query(context.Background(), "any alerts right now?")

	assert.Equal(t, DataAlerts, resp.DataKind)
	attached, ok := resp.Data.([]telemetry.Alert)
	require.True(t, ok)
	require.Len(t, attached, 2)
	for _, a := range attached {
		assert.False(t, a.Acknowledged)
	}
}

func TestQuery_AttachesPredictionSlice(t *testing.T) {
	stub := &stubCompleter{response: "here is the forecast"}
	r := newTestRouter(fixtureStore(), stub, true)

	resp := r.Query(context.Background(), "energy forecast for next week")

	assert.Equal(t, DataPredictions, resp.DataKind)
	preds, ok := resp.Data.([]telemetry.Prediction)
	require.True(t, ok)
	assert.Len(t, preds, 1)
}

func TestQuery_SliceAttachesEvenOnFallback(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	r := newTestRouter(fixtureStore(), stub, true)

	resp := r.Query(context.Background(), "show sec")

	assert.Equal(t, DataSEC, resp.DataKind)
	kpi, ok := resp.Data.(telemetry.KPI)
	require.True(t, ok)
	assert.Equal(t, "Overall SEC", kpi.Name)
}

func TestQuery_CacheAvoidsSecondModelCall(t *testing.T) {
	stub := &stubCompleter{response: "cached answer"}
	cache := &fakeCache{entries: make(map[string]string)}
	r := newTestRouter(fixtureStore(), stub, true).WithCache(cache)

	first := r.Query(context.Background(), "What's the current SEC?")
	second := r.Query(context.Background(), "what's the current sec?")

	assert.Equal(t, 1, stub.calls, "second query must come from cache")
	assert.Equal(t, first.Response, second.Response)
}

func TestQuery_AuditLogRecordsExchange(t *testing.T) {
	stub := &stubCompleter{response: "fine"}
	audit := &recordingAudit{}
	r := newTestRouter(fixtureStore(), stub, true).WithAuditLog(audit)

	r.Query(context.Background(), "any alerts?")

	require.Len(t, audit.records, 1)
	rec := audit.records[0]
	assert.Equal(t, "any alerts?", rec.Query)
	assert.Equal(t, "fine", rec.Response)
	assert.True(t, rec.Domain)
	assert.False(t, rec.Fallback)
	assert.Equal(t, DataAlerts, rec.DataKind)
	assert.NotEmpty(t, rec.ID)
}
