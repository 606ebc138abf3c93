package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"rift-rewind/internal/api"
	"rift-rewind/internal/constants"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/repository"

	"github.com/rs/zerolog"
)

const defaultRiskProfile = "Balanced"

type Share struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type MonthlyEntry struct {
	Month string `json:"month"`
	api.MonthlyStats
}

type StatsView struct {
	GameName           string                         `json:"gameName"`
	TagLine            string                         `json:"tagLine"`
	Summary            string                         `json:"summary"`
	TotalMatches       int                            `json:"totalMatches"`
	Wins               int                            `json:"wins"`
	Losses             int                            `json:"losses"`
	WinRate            string                         `json:"winRate"`
	KDA                string                         `json:"kda"`
	KDALine            string                         `json:"kdaLine"`
	CSPerMin           string                         `json:"csPerMin"`
	Impact             api.ImpactStats                `json:"impact"`
	MostPlayedChampion string                         `json:"mostPlayedChampion"`
	Roles              []Share                        `json:"roles"`
	GameModes          []Share                        `json:"gameModes"`
	RolePerformance    map[string]api.RolePerformance `json:"rolePerformance"`
	RoleImpact         map[string]api.RoleImpact      `json:"roleImpact"`
	ExtremeGames       api.ExtremeGames               `json:"extremeGames"`
	Monthly            []MonthlyEntry                 `json:"monthly"`
	MonthlyRoles       map[string]map[string]int      `json:"monthlyRoles"`
	MonthlyChampions   map[string]map[string]int      `json:"monthlyChampions"`
}

type RadarAxis struct {
	Subject  string  `json:"subject"`
	Value    float64 `json:"value"`
	FullMark float64 `json:"fullMark"`
}

type LevelTiming struct {
	Level   int    `json:"level"`
	Average string `json:"average"`
}

type TimelineView struct {
	TotalMatches     int                   `json:"totalMatches"`
	Playstyle        api.PlaystyleIdentity `json:"playstyle"`
	Radar            []RadarAxis           `json:"radar"`
	Insights         api.AverageInsights   `json:"insights"`
	LevelTimings     []LevelTiming         `json:"levelTimings"`
	Objectives       []Share               `json:"objectives"`
	Comeback         api.ComebackPattern   `json:"comeback"`
	KillCount        int                   `json:"killCount"`
	MostExtremeGames api.MostExtremeGames  `json:"mostExtremeGames"`
}

type DashboardService struct {
	sessions *repository.SessionRepository
	logger   zerolog.Logger
}

func NewDashboardService(sessions *repository.SessionRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{sessions: sessions, logger: logger.With().Str("component", "dashboard").Logger()}
}

func (s *DashboardService) Stats(ctx context.Context, sessionID string) (*StatsView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stats, err := s.sessions.GetStats(ctx, sessionID)
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("stats unavailable")
		return nil, sessionErr(err)
	}
	return BuildStatsView(stats), nil
}

func (s *DashboardService) Timeline(ctx context.Context, sessionID string) (*TimelineView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	timeline, err := s.sessions.GetTimeline(ctx, sessionID)
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("timeline unavailable")
		return nil, sessionErr(err)
	}
	return BuildTimelineView(timeline), nil
}

// KillPositions returns the stored kill list. An empty list is not an
// error; callers decide whether to draw anything.
func (s *DashboardService) KillPositions(ctx context.Context, sessionID string) ([]domain.KillPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	timeline, err := s.sessions.GetTimeline(ctx, sessionID)
	if err != nil {
		return nil, sessionErr(err)
	}
	return timeline.Heatmap.KillPositions, nil
}

func BuildStatsView(stats *api.StatsPayload) *StatsView {
	p := stats.Profile
	avg := stats.CoreAverages

	monthly := make([]MonthlyEntry, 0, len(stats.MonthlyStats))
	for month, m := range stats.MonthlyStats {
		monthly = append(monthly, MonthlyEntry{Month: month, MonthlyStats: m})
	}
	slices.SortFunc(monthly, func(a, b MonthlyEntry) int { return cmp.Compare(a.Month, b.Month) })

	return &StatsView{
		GameName:           p.GameName,
		TagLine:            p.TagLine,
		Summary:            fmt.Sprintf("%d games • %dW %dL • %s%% WR", p.TotalMatches, p.TotalWins, p.TotalLosses, p.WinRate),
		TotalMatches:       p.TotalMatches,
		Wins:               p.TotalWins,
		Losses:             p.TotalLosses,
		WinRate:            p.WinRate,
		KDA:                fmt.Sprintf("%.2f", KDA(avg.Kills, avg.Deaths, avg.Assists)),
		KDALine:            fmt.Sprintf("%.1f / %.1f / %.1f", avg.Kills, avg.Deaths, avg.Assists),
		CSPerMin:           fmt.Sprintf("%.1f", avg.CSPerMin),
		Impact:             stats.ImpactStats,
		MostPlayedChampion: stats.MostPlayedChampion,
		Roles:              shares(stats.RoleDistribution),
		GameModes:          shares(stats.GameModeDistribution),
		RolePerformance:    stats.RolePerformance,
		RoleImpact:         stats.RoleImpactStats,
		ExtremeGames:       stats.ExtremeGames,
		Monthly:            monthly,
		MonthlyRoles:       stats.MonthlyRoles,
		MonthlyChampions:   stats.MonthlyChampions,
	}
}

// KDA is (kills+assists)/deaths, or kills+assists for a deathless record.
func KDA(kills, deaths, assists float64) float64 {
	if deaths > 0 {
		return (kills + assists) / deaths
	}
	return kills + assists
}

func BuildTimelineView(t *api.TimelinePayload) *TimelineView {
	in := t.AverageInsights

	playstyle := t.PlaystyleIdentity
	if playstyle.RiskProfile == "" {
		playstyle.RiskProfile = defaultRiskProfile
	}

	early := 50.0
	if in.EarlyDominance > 0 {
		early = math.Min(in.EarlyDominance/5, 100)
	}

	obj := t.Heatmap.Objectives
	objectives := []Share{
		{Name: "Dragon", Count: obj.Dragon},
		{Name: "Baron", Count: obj.Baron},
		{Name: "Herald", Count: obj.Herald},
		{Name: "Tower", Count: obj.Tower},
		{Name: "Inhibitor", Count: obj.Inhibitor},
	}
	fillPercent(objectives)

	return &TimelineView{
		TotalMatches: t.TotalMatches,
		Playstyle:    playstyle,
		Radar: []RadarAxis{
			{Subject: "Early Game", Value: early, FullMark: 100},
			{Subject: "Roaming", Value: math.Min(in.RoamScore*10, 100), FullMark: 100},
			{Subject: "Consistency", Value: in.ConsistencyScore, FullMark: 100},
			{Subject: "Risk", Value: math.Min(math.Abs(in.BiggestSpike)/10, 100), FullMark: 100},
		},
		Insights: in,
		LevelTimings: []LevelTiming{
			{Level: 6, Average: ClockTime(in.AvgLevel6Time)},
			{Level: 11, Average: ClockTime(in.AvgLevel11Time)},
			{Level: 16, Average: ClockTime(in.AvgLevel16Time)},
		},
		Objectives:       objectives,
		Comeback:         t.ComebackPattern,
		KillCount:        len(t.Heatmap.KillPositions),
		MostExtremeGames: t.MostExtremeGames,
	}
}

// ClockTime renders seconds as m:ss, truncating fractions.
func ClockTime(seconds float64) string {
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// shares orders a distribution by count, then name, so map iteration
// order never leaks into a response.
func shares(dist map[string]int) []Share {
	out := make([]Share, 0, len(dist))
	for name, n := range dist {
		out = append(out, Share{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b Share) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	fillPercent(out)
	return out
}

func fillPercent(s []Share) {
	total := 0
	for _, v := range s {
		total += v.Count
	}
	if total == 0 {
		return
	}
	for i := range s {
		s[i].Percent = int(math.Round(float64(s[i].Count) / float64(total) * 100))
	}
}
