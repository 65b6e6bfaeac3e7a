package insight

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/alerts"
	"github.com/refineryiq/server/internal/llm"
	"github.com/refineryiq/server/internal/metrics"
	"github.com/refineryiq/server/internal/telemetry"
	"github.com/refineryiq/server/pkg/logger"
)

// Completer is the external model boundary. The call has no side effects on
// the telemetry store, so abandoning it (context cancellation) is always
// safe.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// ResponseCache stores prose answers keyed by query hash. Best-effort: a
// failing cache never surfaces to the caller.
type ResponseCache interface {
	GetResponse(ctx context.Context, key string) (string, bool)
	SetResponse(ctx context.Context, key, response string)
}

// AuditLog records each exchange. Best-effort as well.
type AuditLog interface {
	Record(ctx context.Context, rec Record)
}

// Record is one logged insight exchange.
type Record struct {
	ID        string
	Query     string
	Response  string
	Domain    bool
	DataKind  DataKind
	Fallback  bool
	LatencyMS int
	CreatedAt time.Time
}

// Response is what every query yields. The contract never fails: model and
// configuration problems are absorbed into a degraded prose answer.
type Response struct {
	Response string   `json:"response"`
	DataKind DataKind `json:"dataKind,omitempty"`
	Data     any      `json:"data,omitempty"`
}

// Router answers free-text operator questions: it classifies the query,
// assembles a bounded context snapshot, delegates to the external model, and
// falls back deterministically when the call cannot succeed.
type Router struct {
	store     *telemetry.Store
	alerts    *alerts.Manager
	completer Completer
	cache     ResponseCache
	audit     AuditLog
	hasAPIKey bool
}

func NewRouter(store *telemetry.Store, alertMgr *alerts.Manager, completer Completer, hasAPIKey bool) *Router {
	return &Router{
		store:     store,
		alerts:    alertMgr,
		completer: completer,
		hasAPIKey: hasAPIKey,
	}
}

// WithCache attaches an optional response cache.
func (r *Router) WithCache(cache ResponseCache) *Router {
	r.cache = cache
	return r
}

// WithAuditLog attaches an optional exchange log.
func (r *Router) WithAuditLog(audit AuditLog) *Router {
	r.audit = audit
	return r
}

// Query always succeeds from the caller's perspective. The prose answer
// comes from the model when reachable, from a deterministic data-enriched
// fallback otherwise; a structured slice is attached when the query matches
// a narrow keyword family.
func (r *Router) Query(ctx context.Context, text string) Response {
	start := time.Now()
	queryID := uuid.New().String()

	if !r.hasAPIKey {
		metrics.InsightQueries.WithLabelValues("config_error").Inc()
		resp := Response{Response: configMessage}
		r.record(ctx, queryID, text, resp, false, true, start)
		return resp
	}

	domain := IsDomainQuery(text)
	outcome := "ok"
	fallback := false

	prose, cached := r.cachedProse(ctx, text)
	if !cached {
		var err error
		prose, err = r.completer.Complete(ctx, llm.CompletionRequest{
			SystemPrompt: r.systemPrompt(domain),
			UserPrompt:   fmt.Sprintf("User Question: %s", text),
		})
		if err != nil {
			logger.Warn("model call failed, using fallback",
				zap.String("query_id", queryID),
				zap.Error(err),
			)
			prose = r.fallbackAnswer(err)
			outcome = "fallback"
			fallback = true
		} else {
			r.cacheProse(ctx, text, prose)
		}
	}

	kind, data := r.dataSlice(text)
	resp := Response{Response: prose, DataKind: kind, Data: data}

	metrics.InsightQueries.WithLabelValues(outcome).Inc()
	metrics.InsightDuration.Observe(time.Since(start).Seconds())

	r.record(ctx, queryID, text, resp, domain, fallback, start)

	logger.Info("insight query answered",
		zap.String("query_id", queryID),
		zap.Bool("domain", domain),
		zap.String("data_kind", string(kind)),
		zap.Bool("fallback", fallback),
		zap.Duration("latency", time.Since(start)),
	)

	return resp
}

const configMessage = "The insight assistant is not configured: no model API key is set. " +
	"Ask an administrator to set llm.apiKey (REFINERYIQ_LLM_APIKEY); live telemetry remains available on the dashboard."

func (r *Router) systemPrompt(domain bool) string {
	if !domain {
		return "You are the RefineryIQ assistant, a helpful AI assistant. Answer the user's question clearly and concisely."
	}

	snapshot := r.buildSnapshot()
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are the RefineryIQ assistant, an AI expert in refinery operations and energy management.\n\n")
	b.WriteString("Current plant snapshot:\n")
	b.Write(payload)
	b.WriteString("\n\nProvide helpful, concise, technical answers about refinery operations, energy consumption, ")
	b.WriteString("alerts, and optimization recommendations. Use the snapshot when relevant to the question.")
	return b.String()
}

// snapshot types keep the external payload bounded by construction: a unit
// roster, at most three recommendations, and scalar figures.
type snapshot struct {
	OverallSEC           float64          `json:"overallSec"`
	UnacknowledgedAlerts int              `json:"unacknowledgedAlerts"`
	FleetEfficiency      float64          `json:"fleetEfficiency"`
	KPIs                 []kpiBrief       `json:"kpis"`
	Units                []unitBrief      `json:"units"`
	TopRecommendations   []recommendation `json:"topRecommendations"`
}

type kpiBrief struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type unitBrief struct {
	UnitID     string  `json:"unitId"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Efficiency float64 `json:"efficiency"`
}

type recommendation struct {
	Title            string `json:"title"`
	Priority         string `json:"priority"`
	PotentialSavings string `json:"potentialSavings"`
}

func (r *Router) buildSnapshot() snapshot {
	units := r.store.Units()
	samples := r.store.Samples()

	snap := snapshot{
		OverallSEC:           telemetry.SEC(samples),
		UnacknowledgedAlerts: r.alerts.UnacknowledgedCount(),
		FleetEfficiency:      telemetry.FleetEfficiency(units),
	}
	for _, k := range r.store.KPIs() {
		snap.KPIs = append(snap.KPIs, kpiBrief{Name: k.Name, Value: k.Value, Unit: k.Unit})
	}
	for _, u := range units {
		snap.Units = append(snap.Units, unitBrief{
			UnitID:     u.UnitID,
			Name:       u.Name,
			Status:     string(u.Status),
			Efficiency: u.Efficiency,
		})
	}
	for _, rec := range r.store.TopRecommendations(3) {
		snap.TopRecommendations = append(snap.TopRecommendations, recommendation{
			Title:            rec.Title,
			Priority:         string(rec.Priority),
			PotentialSavings: rec.PotentialSavings,
		})
	}
	return snap
}

// fallbackAnswer embeds live values so the operator still gets actionable
// numbers when the model is unreachable.
func (r *Router) fallbackAnswer(cause error) string {
	sec := telemetry.SEC(r.store.Samples())
	efficiency := telemetry.FleetEfficiency(r.store.Units())
	unacked := r.alerts.UnacknowledgedCount()

	return fmt.Sprintf(
		"I'm having trouble reaching the AI service (%v). Meanwhile, here is the live plant status: "+
			"overall SEC is %.4f MWh/bbl, there are %d unacknowledged alerts, and fleet efficiency is %.1f%%.",
		cause, sec, unacked, efficiency,
	)
}

func (r *Router) dataSlice(query string) (DataKind, any) {
	kind := ClassifyDataSlice(query)
	switch kind {
	case DataSEC:
		if kpi, ok := r.store.KPI("Overall SEC"); ok {
			return kind, kpi
		}
		return kind, telemetry.KPI{Name: "Overall SEC", Value: telemetry.SEC(r.store.Samples()), Unit: "MWh/bbl", Trend: telemetry.TrendStable}
	case DataAlerts:
		return kind, r.alerts.Active()
	case DataRecommendations:
		return kind, r.store.TopRecommendations(3)
	case DataPredictions:
		return kind, r.store.Predictions()
	case DataUnits:
		return kind, r.store.Units()
	default:
		return DataNone, nil
	}
}

func (r *Router) cachedProse(ctx context.Context, query string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	prose, ok := r.cache.GetResponse(ctx, queryKey(query))
	if ok {
		metrics.InsightCacheHits.Inc()
	} else {
		metrics.InsightCacheMisses.Inc()
	}
	return prose, ok
}

func (r *Router) cacheProse(ctx context.Context, query, prose string) {
	if r.cache == nil {
		return
	}
	r.cache.SetResponse(ctx, queryKey(query), prose)
}

func (r *Router) record(ctx context.Context, id, query string, resp Response, domain, fallback bool, start time.Time) {
	if r.audit == nil {
		return
	}
	r.audit.Record(ctx, Record{
		ID:        id,
		Query:     query,
		Response:  resp.Response,
		Domain:    domain,
		DataKind:  resp.DataKind,
		Fallback:  fallback,
		LatencyMS: int(time.Since(start).Milliseconds()),
		CreatedAt: time.Now(),
	})
}

func queryKey(query string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("%x", sum)
}
