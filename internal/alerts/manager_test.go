package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refineryiq/server/internal/telemetry"
)

func managerWith(alerts ...telemetry.Alert) *Manager {
	return NewManager(telemetry.NewStoreFromData(telemetry.Data{Alerts: alerts}))
}

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func TestList_SeverityThenRecency(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "c10", Type: telemetry.AlertCritical, Timestamp: at(10)},
		telemetry.Alert{ID: "w20", Type: telemetry.AlertWarning, Timestamp: at(20)},
		telemetry.Alert{ID: "c5", Type: telemetry.AlertCritical, Timestamp: at(5)},
	)

	got := m.List()
	require.Len(t, got, 3)
	assert.Equal(t, "c10", got[0].ID)
	assert.Equal(t, "c5", got[1].ID)
	assert.Equal(t, "w20", got[2].ID)
}

func TestList_EqualTimestampsKeepInsertionOrder(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "first", Type: telemetry.AlertInfo, Timestamp: at(100)},
		telemetry.Alert{ID: "second", Type: telemetry.AlertInfo, Timestamp: at(100)},
	)

	got := m.List()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestAcknowledge_Idempotent(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "a1", Type: telemetry.AlertWarning, Timestamp: at(1)},
	)

	require.NoError(t, m.Acknowledge("a1"))
	stateAfterOnce := m.List()

	require.NoError(t, m.Acknowledge("a1"))
	assert.Equal(t, stateAfterOnce, m.List())
	assert.Equal(t, 0, m.UnacknowledgedCount())
}

func TestAcknowledge_UnknownIDLeavesStateUntouched(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "a1", Type: telemetry.AlertWarning, Timestamp: at(1)},
		telemetry.Alert{ID: "a2", Type: telemetry.AlertInfo, Timestamp: at(2)},
	)

	before := m.List()
	err := m.Acknowledge("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, m.List())
	assert.Equal(t, 2, m.UnacknowledgedCount())
}

func TestUnacknowledgedCount_IsLive(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "a1", Type: telemetry.AlertCritical, Timestamp: at(1)},
		telemetry.Alert{ID: "a2", Type: telemetry.AlertWarning, Timestamp: at(2)},
		telemetry.Alert{ID: "a3", Type: telemetry.AlertInfo, Timestamp: at(3), Acknowledged: true},
	)

	assert.Equal(t, 2, m.UnacknowledgedCount())
	require.NoError(t, m.Acknowledge("a1"))
	assert.Equal(t, 1, m.UnacknowledgedCount())
}

func TestActive_FiltersAcknowledged(t *testing.T) {
	m := managerWith(
		telemetry.Alert{ID: "a1", Type: telemetry.AlertCritical, Timestamp: at(1), Acknowledged: true},
		telemetry.Alert{ID: "a2", Type: telemetry.AlertWarning, Timestamp: at(2)},
	)

	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "a2", active[0].ID)
}
