package apitest

const StatsJSON = `{
  "profile": {"gameName": "EMP", "tagLine": "2005", "puuid": "puuid-emp", "total_matches": 20, "total_wins": 12, "total_losses": 8, "win_rate": "60.0"},
  "core_averages": {"kills": 7.5, "deaths": 4, "assists": 8.5, "cs_per_min": 6.8},
  "impact_stats": {"kill_participation": 55.2, "damage_share": 24.1, "gold_share": 21.7, "vision_share": 18.3},
  "role_distribution": {"MIDDLE": 15, "JUNGLE": 5},
  "role_performance": {"MIDDLE": {"avg_kills": 8, "avg_deaths": 4, "avg_assists": 7, "avg_damage": 21000, "avg_cs": 190, "avg_kp": 54}},
  "role_impact_stats": {"MIDDLE": {"avg_damage_share": 26, "avg_gold_share": 23, "avg_vision_share": 15, "avg_kp": 54}},
  "most_played_champion": "Ahri",
  "game_mode_distribution": {"CLASSIC": 18, "ARAM": 2},
  "extreme_games": {
    "highest_kill_game": {"match_id": "NA1_1", "champion": "Ahri", "role": "MIDDLE", "kills": 17},
    "best_kda_game": {"match_id": "NA1_2", "champion": "Ahri", "role": "MIDDLE", "kda": 12.5},
    "fastest_game": {"match_id": "NA1_3", "champion": "Lee Sin", "role": "JUNGLE", "duration": 1012}
  },
  "monthly_stats": {
    "2025-03": {"matches": 8, "wins": 5, "winrate": 62.5, "avg_kills": 7, "avg_deaths": 4, "avg_assists": 9, "avg_cs_per_min": 6.5, "avg_kp": 56, "avg_damage_share": 24, "avg_gold_share": 22},
    "2025-01": {"matches": 12, "wins": 7, "winrate": 58.3, "avg_kills": 8, "avg_deaths": 4, "avg_assists": 8, "avg_cs_per_min": 7, "avg_kp": 54, "avg_damage_share": 24, "avg_gold_share": 21}
  },
  "monthly_roles": {"2025-01": {"MIDDLE": 12}},
  "monthly_champions": {"2025-01": {"Ahri": 9, "Syndra": 3}}
}`

const ProcessJSON = `{"processed": 0, "skipped": 20, "gameName": "EMP", "tagLine": "2005", "puuid": "puuid-emp", "message": "nothing new to process"}`

const TimelineJSON = `{
  "puuid": "puuid-emp",
  "total_matches": 20,
  "average_insights": {"early_dominance": 250, "midgame_swing": -120, "consistency_score": 72, "roam_score": 4.5, "biggest_spike": 3400, "biggest_throw": -2100, "avg_level6_time": 425.7, "avg_level11_time": 1130, "avg_level16_time": 1865},
  "playstyle_identity": {"early_game": "Lane Bully", "consistency": "Steady", "roaming": "Map Mover"},
  "comeback_pattern": {"comeback_wins": 3, "throws": 2, "dominant_wins": 9, "fell_behind_losses": 4, "neutral_games": 2},
  "heatmap": {
    "kill_positions": [{"x": 7500, "y": 7500}, {"x": 0, "y": 0}, {"x": 15000, "y": 15000}, {"x": 7500, "y": 7500}],
    "objectives": {"dragon": 11, "baron": 3, "herald": 4, "tower": 27, "inhibitor": 5}
  },
  "most_extreme_games": {
    "best_spike_game": {"match_id": "NA1_4", "spike": 3400, "early_dominance": 900, "comeback_type": "dominant_win"},
    "worst_throw_game": {"match_id": "NA1_5", "throw": -2100, "early_dominance": 1200, "comeback_type": "throw"}
  }
}`

const RecapJSON = `{
  "recap": {"personality_profile": "The Calculated Assassin", "strengths": ["lane pressure"], "weaknesses": ["late-game deaths"], "playstyle_summary": "Snowballs early.", "actionable_tip": "Ward before crossing river.", "fun_highlight": "17 kills on Ahri."},
  "stats_summary": {"total_matches": 20, "win_rate": "60.0", "most_played_champion": "Ahri"}
}`

// Happy wires all four backend routes with the fixtures above.
func (b *Backend) Happy() *Backend {
	b.Handle("/get-stats", 200, StatsJSON)
	b.Handle("/process-timelines", 200, ProcessJSON)
	b.Handle("/get-timeline-stats", 200, TimelineJSON)
	b.Handle("/generate-recap", 200, RecapJSON)
	return b
}
