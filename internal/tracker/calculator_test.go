package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptt/internal/models"
	"ptt/internal/testutil"
)

func newCalcEnv(t *testing.T) (*storeEnv, *Calculator) {
	t.Helper()
	env := newStoreEnv(devWorkspace())
	conf := testConfig()
	calc := NewCalculator(conf, env.store, env.state, env.store.resolver, env.logger, env.metrics)
	calc.now = func() time.Time {
		return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	}
	return env, calc
}

func seedLocalRecord(env *storeEnv) {
	env.state.PutRecord(&models.DeviceProjectData{
		DeviceID:    "dev-1",
		ProjectUUID: "local",
		MatchInfo:   currentFingerprint(),
		History: models.History{
			"2024-01-01": {Seconds: 100},
			"2024-01-02": {Seconds: 200},
		},
	})
}

func TestCalculator_AggregatesAcrossDevices(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)
	env.state.PutRecord(&models.DeviceProjectData{
		DeviceID:    "dev-2",
		ProjectUUID: "remote",
		MatchInfo:   models.MatchInfo{GitRemoteURL: "git@host:u/proj.git", FolderName: "proj"},
		History: models.History{
			"2023-12-31": {Seconds: 25},
			"2024-01-02": {Seconds: 50},
		},
	})
	// Unrelated project on another device must not contribute.
	env.state.PutRecord(&models.DeviceProjectData{
		DeviceID:    "dev-3",
		ProjectUUID: "unrelated",
		MatchInfo:   models.MatchInfo{GitRemoteURL: "git@host:u/other.git", FolderName: "other"},
		History:     models.History{"2024-01-02": {Seconds: 1000}},
	})

	total, err := calc.TotalSeconds()
	require.NoError(t, err)
	assert.Equal(t, 375.0, total) // 100 past + 200 today + 75 remote

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 250.0, today) // 200 local + 50 remote

	assert.Equal(t, 375.0, env.metrics.TrackedSeconds["total"])
	assert.Equal(t, 250.0, env.metrics.TrackedSeconds["today"])
}

func TestCalculator_LocalOnly(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)

	total, err := calc.TotalSeconds()
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 200.0, today)
}

func TestCalculator_TodayTicksWithoutSnapshotRebuild(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	require.Equal(t, 200.0, today)
	scans := env.metrics.StoreScans

	// More local time arrives inside the snapshot lifetime.
	require.NoError(t, env.store.Update(func(data *models.DeviceProjectData) {
		data.History["2024-01-02"].Seconds += 30
	}))

	today, err = calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 230.0, today, "today's local seconds are read live")
	assert.Equal(t, scans, env.metrics.StoreScans)
}

func TestCalculator_NoProject(t *testing.T) {
	env := newStoreEnv(&testutil.MockWorkspace{})
	calc := NewCalculator(testConfig(), env.store, env.state, env.store.resolver, env.logger, env.metrics)

	_, err := calc.TotalSeconds()
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = calc.TodaySeconds()
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestCalculator_DayRolloverInvalidatesSnapshot(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)

	total, err := calc.TotalSeconds()
	require.NoError(t, err)
	require.Equal(t, 300.0, total)

	// Midnight passes. Yesterday's 200s moves from live-today to past-total.
	calc.now = func() time.Time {
		return time.Date(2024, 1, 3, 0, 0, 1, 0, time.UTC)
	}

	total, err = calc.TotalSeconds()
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 0.0, today)
}

func TestCalculator_TTLExpiryPicksUpRemoteChanges(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	require.Equal(t, 200.0, today)

	// A sync delivers a remote record; the stale snapshot hides it until TTL.
	env.state.PutRecord(&models.DeviceProjectData{
		DeviceID:    "dev-2",
		ProjectUUID: "remote",
		MatchInfo:   models.MatchInfo{FolderName: "proj"},
		History:     models.History{"2024-01-02": {Seconds: 40}},
	})

	today, err = calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 200.0, today)

	calc.now = func() time.Time {
		return time.Date(2024, 1, 2, 12, 0, 31, 0, time.UTC)
	}
	today, err = calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 240.0, today)
}

func TestCalculator_InvalidateForcesRebuild(t *testing.T) {
	env, calc := newCalcEnv(t)
	seedLocalRecord(env)

	_, err := calc.TodaySeconds()
	require.NoError(t, err)

	env.state.PutRecord(&models.DeviceProjectData{
		DeviceID:    "dev-2",
		ProjectUUID: "remote",
		MatchInfo:   models.MatchInfo{FolderName: "proj"},
		History:     models.History{"2024-01-02": {Seconds: 40}},
	})
	calc.Invalidate()

	today, err := calc.TodaySeconds()
	require.NoError(t, err)
	assert.Equal(t, 240.0, today)
}
