package alerts

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/telemetry"
	"github.com/refineryiq/server/pkg/logger"
)

// ErrNotFound is returned when an alert id matches nothing in the store.
var ErrNotFound = errors.New("alert not found")

// Manager owns alert lifecycle over the shared telemetry store: display
// ordering, acknowledgment, and the live unacknowledged count.
type Manager struct {
	store *telemetry.Store
}

func NewManager(store *telemetry.Store) *Manager {
	return &Manager{store: store}
}

// List returns alerts ordered for display: severity first (critical,
// warning, info), most recent first within a severity. The sort is stable,
// so alerts with identical severity and timestamp keep insertion order.
func (m *Manager) List() []telemetry.Alert {
	out := m.store.Alerts()
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Type.SeverityRank(), out[j].Type.SeverityRank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Active returns unacknowledged alerts in display order.
func (m *Manager) Active() []telemetry.Alert {
	var out []telemetry.Alert
	for _, a := range m.List() {
		if !a.Acknowledged {
			out = append(out, a)
		}
	}
	return out
}

// Acknowledge marks an alert acknowledged. Acknowledging twice is a no-op
// success; an unknown id fails with ErrNotFound and changes nothing.
func (m *Manager) Acknowledge(alertID string) error {
	if !m.store.AcknowledgeAlert(alertID) {
		return ErrNotFound
	}
	logger.Debug("alert acknowledged", zap.String("alert_id", alertID))
	return nil
}

// UnacknowledgedCount is computed live on every call.
func (m *Manager) UnacknowledgedCount() int {
	count := 0
	for _, a := range m.store.Alerts() {
		if !a.Acknowledged {
			count++
		}
	}
	return count
}
