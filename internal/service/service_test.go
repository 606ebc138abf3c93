package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rift-rewind/internal/api"
	"rift-rewind/internal/api/apitest"
	"rift-rewind/internal/config"
	"rift-rewind/internal/database"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/metrics"
	"rift-rewind/internal/pipeline"
	"rift-rewind/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend   *apitest.Backend
	db        *sql.DB
	sessions  *repository.SessionRepository
	search    *SearchService
	dashboard *DashboardService
}

func newHarness(t *testing.T, ttl time.Duration) *harness {
	t.Helper()

	cfg := &config.Config{
		DefaultRegion:        "americas",
		StepTimeout:          2 * time.Second,
		SessionTTL:           ttl,
		SessionPurgeInterval: 10 * time.Millisecond,
	}

	db, err := database.Open(filepath.Join(t.TempDir(), "rift.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	backend := apitest.New(t)
	client := backend.Client()
	sessions := repository.NewSessionRepository(db, cfg, zerolog.Nop())
	orch := pipeline.NewOrchestrator(client, cfg, zerolog.Nop())

	return &harness{
		backend:   backend,
		db:        db,
		sessions:  sessions,
		search:    NewSearchService(orch, client, sessions, cfg, zerolog.Nop()),
		dashboard: NewDashboardService(sessions, zerolog.Nop()),
	}
}

func TestSearch_EndToEnd(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Happy()
	ctx := context.Background()

	rec := &pipeline.Recorder{}
	res, err := h.search.Search(ctx, "", "EMP#2005", "americas", rec)
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)

	assert.Equal(t, domain.PlayerIdentity{GameName: "EMP", TagLine: "2005", Region: "americas"}, res.Player)
	assert.Equal(t, 20, res.Receipt.Skipped)
	assert.Equal(t, []string{"/get-stats", "/process-timelines", "/get-timeline-stats"}, h.backend.Paths())

	var labels []string
	for _, ev := range rec.Events() {
		labels = append(labels, ev.Label)
	}
	assert.Equal(t, []string{
		"Fetching player stats...",
		"Processing match timelines...",
		"Fetching timeline analytics...",
		"Complete!",
	}, labels)

	stats, err := h.dashboard.Stats(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "EMP", stats.GameName)
	assert.Equal(t, "4.00", stats.KDA)
	assert.Equal(t, "7.5 / 4.0 / 8.5", stats.KDALine)
	assert.Equal(t, "6.8", stats.CSPerMin)
	assert.Equal(t, "20 games • 12W 8L • 60.0% WR", stats.Summary)
	assert.Equal(t, []Share{{Name: "MIDDLE", Count: 15, Percent: 75}, {Name: "JUNGLE", Count: 5, Percent: 25}}, stats.Roles)
	require.Len(t, stats.Monthly, 2)
	assert.Equal(t, "2025-01", stats.Monthly[0].Month)
	assert.Equal(t, "2025-03", stats.Monthly[1].Month)
	require.NotNil(t, stats.ExtremeGames.HighestKillGame.Kills)
	assert.Equal(t, 17, *stats.ExtremeGames.HighestKillGame.Kills)

	timeline, err := h.dashboard.Timeline(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Balanced", timeline.Playstyle.RiskProfile)
	assert.Equal(t, 4, timeline.KillCount)
	assert.Equal(t, []RadarAxis{
		{Subject: "Early Game", Value: 50, FullMark: 100},
		{Subject: "Roaming", Value: 45, FullMark: 100},
		{Subject: "Consistency", Value: 72, FullMark: 100},
		{Subject: "Risk", Value: 100, FullMark: 100},
	}, timeline.Radar)
	assert.Equal(t, []LevelTiming{{Level: 6, Average: "7:05"}, {Level: 11, Average: "18:50"}, {Level: 16, Average: "31:05"}}, timeline.LevelTimings)
	assert.Equal(t, Share{Name: "Tower", Count: 27, Percent: 54}, timeline.Objectives[3])

	points, err := h.dashboard.KillPositions(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Len(t, points, 4)
	assert.Equal(t, domain.KillPosition{X: 15000, Y: 15000}, points[2])
}

func TestSearch_FailureAtStepTwoPersistsNothing(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Handle("/get-stats", 200, apitest.StatsJSON)
	h.backend.Handle("/process-timelines", 500, "internal error")
	h.backend.Handle("/get-timeline-stats", 200, apitest.TimelineJSON)
	ctx := context.Background()

	rec := &pipeline.Recorder{}
	res, err := h.search.Search(ctx, "s1", "EMP#2005", "", rec)
	require.Error(t, err)
	assert.Nil(t, res)

	var stepErr *pipeline.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, pipeline.StepProcessTimelines, stepErr.Step)
	assert.Equal(t, 500, stepErr.StatusCode())
	assert.Equal(t, "internal error", stepErr.Body())
	assert.Contains(t, err.Error(), "step 2")

	assert.Equal(t, []string{"/get-stats", "/process-timelines"}, h.backend.Paths())
	assert.Len(t, rec.Events(), 2)

	_, err = h.dashboard.Stats(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	var rows int
	require.NoError(t, h.db.QueryRow(`SELECT COUNT(*) FROM session_slots`).Scan(&rows))
	assert.Equal(t, 0, rows)
}

func TestSearch_FailureKeepsPreviousSnapshot(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Happy()
	ctx := context.Background()

	first, err := h.search.Search(ctx, "", "EMP#2005", "americas", nil)
	require.NoError(t, err)

	h.backend.Handle("/get-timeline-stats", 503, "warming up")
	_, err = h.search.Search(ctx, first.SessionID, "Faker#KR1", "asia", nil)
	require.Error(t, err)

	player, err := h.sessions.GetPlayer(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "EMP", player.GameName)
}

func TestSearch_ReusesSessionID(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Happy()

	res, err := h.search.Search(context.Background(), "abc", "EMP#2005", "europe", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", res.SessionID)
	assert.Equal(t, "europe", h.backend.Calls()[0].Query["region"])
}

func TestSearch_InvalidRiotID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "no delimiter", input: "EMP2005", want: domain.ErrInvalidRiotID},
		{name: "two delimiters", input: "EMP#20#05", want: domain.ErrInvalidRiotID},
		{name: "empty tag", input: "EMP#", want: domain.ErrMissingNameOrTag},
		{name: "empty name", input: "  #2005 ", want: domain.ErrMissingNameOrTag},
		{name: "blank", input: "", want: domain.ErrInvalidRiotID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, time.Hour)
			h.backend.Happy()

			_, err := h.search.Search(context.Background(), "", tt.input, "", nil)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
			assert.Empty(t, h.backend.Calls())
		})
	}
}

func TestRecap(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Happy()
	ctx := context.Background()

	_, err := h.search.Recap(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	res, err := h.search.Search(ctx, "", "EMP#2005", "americas", nil)
	require.NoError(t, err)

	recap, err := h.search.Recap(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "The Calculated Assassin", recap.Recap.PersonalityProfile)

	calls := h.backend.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "/generate-recap", last.Path)
	assert.JSONEq(t, `{"gameName":"EMP","tagLine":"2005","region":"americas"}`, last.Body)
}

func TestRecap_BackendError(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.backend.Happy()
	ctx := context.Background()

	res, err := h.search.Search(ctx, "", "EMP#2005", "americas", nil)
	require.NoError(t, err)

	h.backend.Handle("/generate-recap", 502, "model overloaded")
	_, err = h.search.Recap(ctx, res.SessionID)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 502, apiErr.StatusCode)
}

func TestDashboard_MissingSession(t *testing.T) {
	h := newHarness(t, time.Hour)
	ctx := context.Background()

	_, err := h.dashboard.Stats(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = h.dashboard.Timeline(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = h.dashboard.KillPositions(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestKDA(t *testing.T) {
	tests := []struct {
		name                   string
		kills, deaths, assists float64
		want                   float64
	}{
		{name: "regular", kills: 6, deaths: 3, assists: 9, want: 5},
		{name: "deathless", kills: 6, deaths: 0, assists: 9, want: 15},
		{name: "all zero", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KDA(tt.kills, tt.deaths, tt.assists), 1e-9)
		})
	}
}

func TestClockTime(t *testing.T) {
	assert.Equal(t, "0:00", ClockTime(0))
	assert.Equal(t, "7:05", ClockTime(425.7))
	assert.Equal(t, "10:00", ClockTime(600))
	assert.Equal(t, "1:59", ClockTime(119.99))
}

func TestBuildTimelineView_EdgeValues(t *testing.T) {
	view := BuildTimelineView(&api.TimelinePayload{
		AverageInsights: api.AverageInsights{
			EarlyDominance: -40,
			RoamScore:      3,
			BiggestSpike:   -250,
		},
		PlaystyleIdentity: api.PlaystyleIdentity{RiskProfile: "Coinflip"},
	})

	assert.Equal(t, 50.0, view.Radar[0].Value)
	assert.Equal(t, 30.0, view.Radar[1].Value)
	assert.Equal(t, 25.0, view.Radar[3].Value)
	assert.Equal(t, "Coinflip", view.Playstyle.RiskProfile)
	assert.Equal(t, 0, view.KillCount)
	for _, o := range view.Objectives {
		assert.Zero(t, o.Percent)
	}
}

func TestSessionJanitor_Sweep(t *testing.T) {
	h := newHarness(t, -time.Minute)
	h.backend.Happy()
	ctx := context.Background()

	_, err := h.search.Search(ctx, "stale", "EMP#2005", "americas", nil)
	require.NoError(t, err)

	j := NewSessionJanitor(h.sessions, &config.Config{SessionPurgeInterval: time.Hour}, zerolog.Nop())

	before := testutil.ToFloat64(metrics.SessionsPurgedTotal)
	n, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsPurgedTotal)-before)
}

func TestSessionJanitor_Background(t *testing.T) {
	h := newHarness(t, -time.Minute)
	h.backend.Happy()

	_, err := h.search.Search(context.Background(), "stale", "EMP#2005", "americas", nil)
	require.NoError(t, err)

	j := NewSessionJanitor(h.sessions, &config.Config{SessionPurgeInterval: 10 * time.Millisecond}, zerolog.Nop())
	j.Start()
	j.Start()

	require.Eventually(t, func() bool {
		var n int
		if err := h.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
			return false
		}
		return n == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.NoError(t, j.Stop())
	assert.NoError(t, j.Stop())
}
