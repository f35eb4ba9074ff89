package services

import (
	"regexp"
	"strconv"

	"github.com/guilbd/analise-apostas/models"
)

// leagueGoalsPerGame is the assumed league-wide mean used to normalise
// attack and defense strengths (typical for Brazilian football).
const leagueGoalsPerGame = 2.5

// Stat labels as shown on the source site.
const (
	statGoalsScored   = "Média de gols marcados por jogo"
	statGoalsConceded = "Média de gols sofridos por jogo"
	statCleanSheets   = "Jogos sem sofrer"
	statFailedToScore = "Jogos sem marcar gols"
	statOver25        = "Jogos com Mais de 2,5 Gols"
	statOpensScoring  = "Abre marcador (qualquer altura)"
)

var (
	decimalPattern = regexp.MustCompile(`(\d+[.,]\d+)`)
	percentPattern = regexp.MustCompile(`(\d+)%`)
)

// ExtractMatchNumbers converts the scraped text stats into the numeric
// profile the prediction engine consumes. Missing or unparseable stats fall
// back to conservative defaults so a sparse page still yields a prediction.
func ExtractMatchNumbers(stats *models.MatchStats) models.MatchNumbers {
	numbers := models.MatchNumbers{
		Home: extractTeamNumbers(stats.Home.Stats, homeDefaults),
		Away: extractTeamNumbers(stats.Away.Stats, awayDefaults),
		Odds: meanOdds(stats.Odds),
	}

	numbers.Home.AttackStrength = numbers.Home.GoalsScoredPerGame / (leagueGoalsPerGame / 2)
	numbers.Home.DefenseWeakness = numbers.Home.GoalsConcededPerGame / (leagueGoalsPerGame / 2)
	numbers.Away.AttackStrength = numbers.Away.GoalsScoredPerGame / (leagueGoalsPerGame / 2)
	numbers.Away.DefenseWeakness = numbers.Away.GoalsConcededPerGame / (leagueGoalsPerGame / 2)

	return numbers
}

var homeDefaults = models.TeamNumbers{
	GoalsScoredPerGame:   1.0,
	GoalsConcededPerGame: 1.0,
	CleanSheetRate:       0.3,
	FailedToScoreRate:    0.2,
	Over25Rate:           0.5,
	OpensScoringRate:     0.6,
}

var awayDefaults = models.TeamNumbers{
	GoalsScoredPerGame:   0.7,
	GoalsConcededPerGame: 1.3,
	CleanSheetRate:       0.2,
	FailedToScoreRate:    0.3,
	Over25Rate:           0.4,
	OpensScoringRate:     0.4,
}

func extractTeamNumbers(stats map[string]string, defaults models.TeamNumbers) models.TeamNumbers {
	numbers := defaults

	if v, ok := parseDecimal(stats[statGoalsScored]); ok {
		numbers.GoalsScoredPerGame = v
	}
	if v, ok := parseDecimal(stats[statGoalsConceded]); ok {
		numbers.GoalsConcededPerGame = v
	}
	if v, ok := parsePercent(stats[statCleanSheets]); ok {
		numbers.CleanSheetRate = v
	}
	if v, ok := parsePercent(stats[statFailedToScore]); ok {
		numbers.FailedToScoreRate = v
	}
	if v, ok := parsePercent(stats[statOver25]); ok {
		numbers.Over25Rate = v
	}
	if v, ok := parsePercent(stats[statOpensScoring]); ok {
		numbers.OpensScoringRate = v
	}

	return numbers
}

// meanOdds averages the 1X2 prices across bookmakers, with market-typical
// defaults when the odds table was absent.
func meanOdds(odds map[string]models.OddsLine) models.MeanOdds {
	mean := models.MeanOdds{Home: 1.8, Draw: 3.5, Away: 4.5}

	var home, draw, away []float64
	for _, line := range odds {
		if line.Home != nil {
			home = append(home, *line.Home)
		}
		if line.Draw != nil {
			draw = append(draw, *line.Draw)
		}
		if line.Away != nil {
			away = append(away, *line.Away)
		}
	}

	if len(home) > 0 {
		mean.Home = average(home)
	}
	if len(draw) > 0 {
		mean.Draw = average(draw)
	}
	if len(away) > 0 {
		mean.Away = average(away)
	}
	return mean
}

func average(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func parseDecimal(text string) (float64, bool) {
	match := decimalPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(normalizeDecimal(match), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parsePercent(text string) (float64, bool) {
	match := percentPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return float64(value) / 100, true
}

func normalizeDecimal(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == ',' {
			out[i] = '.'
		}
	}
	return string(out)
}
