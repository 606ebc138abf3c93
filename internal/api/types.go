package api

import "rift-rewind/internal/domain"

type StatsPayload struct {
	Profile              Profile                    `json:"profile"`
	CoreAverages         CoreAverages               `json:"core_averages"`
	ImpactStats          ImpactStats                `json:"impact_stats"`
	RoleDistribution     map[string]int             `json:"role_distribution"`
	RolePerformance      map[string]RolePerformance `json:"role_performance"`
	RoleImpactStats      map[string]RoleImpact      `json:"role_impact_stats"`
	MostPlayedChampion   string                     `json:"most_played_champion"`
	GameModeDistribution map[string]int             `json:"game_mode_distribution"`
	ExtremeGames         ExtremeGames               `json:"extreme_games"`
	MonthlyStats         map[string]MonthlyStats    `json:"monthly_stats"`
	MonthlyRoles         map[string]map[string]int  `json:"monthly_roles"`
	MonthlyChampions     map[string]map[string]int  `json:"monthly_champions"`
}

type Profile struct {
	GameName     string `json:"gameName"`
	TagLine      string `json:"tagLine"`
	Puuid        string `json:"puuid"`
	TotalMatches int    `json:"total_matches"`
	TotalWins    int    `json:"total_wins"`
	TotalLosses  int    `json:"total_losses"`
	// the backend sends a preformatted percentage, e.g. "54.2"
	WinRate string `json:"win_rate"`
}

type CoreAverages struct {
	Kills    float64 `json:"kills"`
	Deaths   float64 `json:"deaths"`
	Assists  float64 `json:"assists"`
	CSPerMin float64 `json:"cs_per_min"`
}

type ImpactStats struct {
	KillParticipation float64 `json:"kill_participation"`
	DamageShare       float64 `json:"damage_share"`
	GoldShare         float64 `json:"gold_share"`
	VisionShare       float64 `json:"vision_share"`
}

type RolePerformance struct {
	AvgKills   float64 `json:"avg_kills"`
	AvgDeaths  float64 `json:"avg_deaths"`
	AvgAssists float64 `json:"avg_assists"`
	AvgDamage  float64 `json:"avg_damage"`
	AvgCS      float64 `json:"avg_cs"`
	AvgKP      float64 `json:"avg_kp"`
}

type RoleImpact struct {
	AvgDamageShare float64 `json:"avg_damage_share"`
	AvgGoldShare   float64 `json:"avg_gold_share"`
	AvgVisionShare float64 `json:"avg_vision_share"`
	AvgKP          float64 `json:"avg_kp"`
}

type ExtremeGame struct {
	MatchID     string   `json:"match_id"`
	Champion    string   `json:"champion"`
	Role        string   `json:"role"`
	Kills       *int     `json:"kills,omitempty"`
	Deaths      *int     `json:"deaths,omitempty"`
	Assists     *int     `json:"assists,omitempty"`
	Damage      *int     `json:"damage,omitempty"`
	DamageTaken *int     `json:"damage_taken,omitempty"`
	CS          *int     `json:"cs,omitempty"`
	CSPerMin    *float64 `json:"cs_per_min,omitempty"`
	KDA         *float64 `json:"kda,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
}

type ExtremeGames struct {
	HighestKillGame        ExtremeGame `json:"highest_kill_game"`
	HighestDeathGame       ExtremeGame `json:"highest_death_game"`
	HighestAssistGame      ExtremeGame `json:"highest_assist_game"`
	HighestDamageGame      ExtremeGame `json:"highest_damage_game"`
	HighestDamageTakenGame ExtremeGame `json:"highest_damage_taken_game"`
	HighestCSGame          ExtremeGame `json:"highest_cs_game"`
	HighestCSPerMinGame    ExtremeGame `json:"highest_cs_per_min_game"`
	BestKDAGame            ExtremeGame `json:"best_kda_game"`
	WorstKDAGame           ExtremeGame `json:"worst_kda_game"`
	FastestGame            ExtremeGame `json:"fastest_game"`
	LongestGame            ExtremeGame `json:"longest_game"`
}

type MonthlyStats struct {
	Matches        int     `json:"matches"`
	Wins           int     `json:"wins"`
	Winrate        float64 `json:"winrate"`
	AvgKills       float64 `json:"avg_kills"`
	AvgDeaths      float64 `json:"avg_deaths"`
	AvgAssists     float64 `json:"avg_assists"`
	AvgCSPerMin    float64 `json:"avg_cs_per_min"`
	AvgKP          float64 `json:"avg_kp"`
	AvgDamageShare float64 `json:"avg_damage_share"`
	AvgGoldShare   float64 `json:"avg_gold_share"`
}

type TimelinePayload struct {
	Puuid             string            `json:"puuid"`
	TotalMatches      int               `json:"total_matches"`
	AverageInsights   AverageInsights   `json:"average_insights"`
	PlaystyleIdentity PlaystyleIdentity `json:"playstyle_identity"`
	ComebackPattern   ComebackPattern   `json:"comeback_pattern"`
	Heatmap           Heatmap           `json:"heatmap"`
	MostExtremeGames  MostExtremeGames  `json:"most_extreme_games"`
}

type AverageInsights struct {
	EarlyDominance   float64 `json:"early_dominance"`
	MidgameSwing     float64 `json:"midgame_swing"`
	ConsistencyScore float64 `json:"consistency_score"`
	RoamScore        float64 `json:"roam_score"`
	BiggestSpike     float64 `json:"biggest_spike"`
	BiggestThrow     float64 `json:"biggest_throw"`
	// seconds since game start
	AvgLevel6Time  float64 `json:"avg_level6_time"`
	AvgLevel11Time float64 `json:"avg_level11_time"`
	AvgLevel16Time float64 `json:"avg_level16_time"`
}

type PlaystyleIdentity struct {
	EarlyGame   string `json:"early_game"`
	Consistency string `json:"consistency"`
	Roaming     string `json:"roaming"`
	RiskProfile string `json:"risk_profile,omitempty"`
}

type ComebackPattern struct {
	ComebackWins     int `json:"comeback_wins"`
	Throws           int `json:"throws"`
	DominantWins     int `json:"dominant_wins"`
	FellBehindLosses int `json:"fell_behind_losses"`
	NeutralGames     int `json:"neutral_games"`
}

type Heatmap struct {
	KillPositions []domain.KillPosition `json:"kill_positions"`
	Objectives    Objectives            `json:"objectives"`
}

type Objectives struct {
	Dragon    int `json:"dragon"`
	Baron     int `json:"baron"`
	Herald    int `json:"herald"`
	Tower     int `json:"tower"`
	Inhibitor int `json:"inhibitor"`
}

type MostExtremeGames struct {
	BestSpikeGame  SwingGame `json:"best_spike_game"`
	WorstThrowGame SwingGame `json:"worst_throw_game"`
}

type SwingGame struct {
	MatchID        string   `json:"match_id"`
	Spike          *float64 `json:"spike,omitempty"`
	Throw          *float64 `json:"throw,omitempty"`
	EarlyDominance float64  `json:"early_dominance"`
	ComebackType   string   `json:"comeback_type"`
}

// ProcessingReceipt acknowledges the backend's timeline pre-processing.
// A receipt with nothing processed is still a success.
type ProcessingReceipt struct {
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	GameName  string `json:"gameName"`
	TagLine   string `json:"tagLine"`
	Puuid     string `json:"puuid"`
	Message   string `json:"message"`
}

type RecapPayload struct {
	Recap        Recap        `json:"recap"`
	StatsSummary StatsSummary `json:"stats_summary"`
}

type Recap struct {
	PersonalityProfile string   `json:"personality_profile"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	PlaystyleSummary   string   `json:"playstyle_summary"`
	ActionableTip      string   `json:"actionable_tip"`
	FunHighlight       string   `json:"fun_highlight"`
}

type StatsSummary struct {
	TotalMatches       int    `json:"total_matches"`
	WinRate            string `json:"win_rate"`
	MostPlayedChampion string `json:"most_played_champion"`
}
