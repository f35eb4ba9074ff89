package models

// Fixture is one scheduled match scraped from the daily listing.
type Fixture struct {
	HomeTeam    string `json:"casa"`
	AwayTeam    string `json:"fora"`
	Competition string `json:"competicao"`
	Kickoff     string `json:"horario"`
	StatsURL    string `json:"link"`
}

// Label returns the display label, e.g. "Flamengo vs Palmeiras".
func (f Fixture) Label() string {
	return f.HomeTeam + " vs " + f.AwayTeam
}

// TeamStatLines holds the raw stat rows scraped for one side of a match,
// keyed by the stat label shown on the source site.
type TeamStatLines struct {
	Name       string            `json:"nome"`
	Stats      map[string]string `json:"estatisticas"`
	RecentForm []FormEntry       `json:"ultimos_jogos"`
}

// FormEntry is one row of a team's recent results table.
type FormEntry struct {
	Date     string `json:"data"`
	Opponent string `json:"adversario"`
	Result   string `json:"resultado"`
}

// HeadToHead is one historical meeting between the two teams.
type HeadToHead struct {
	Date     string `json:"data"`
	HomeTeam string `json:"casa"`
	Result   string `json:"resultado"`
	AwayTeam string `json:"fora"`
}

// OddsLine is one bookmaker's 1X2 prices. Nil means the price was absent.
type OddsLine struct {
	Home *float64 `json:"casa"`
	Draw *float64 `json:"empate"`
	Away *float64 `json:"fora"`
}

// MatchStats aggregates everything scraped from a match's statistics page.
type MatchStats struct {
	Home       TeamStatLines       `json:"casa"`
	Away       TeamStatLines       `json:"fora"`
	HeadToHead []HeadToHead        `json:"confrontos_diretos"`
	Odds       map[string]OddsLine `json:"odds"`
}

// TeamNumbers is the numeric profile extracted from one side's stat lines.
// Rates are fractions in [0,1]; strengths are relative to the league mean.
type TeamNumbers struct {
	GoalsScoredPerGame   float64
	GoalsConcededPerGame float64
	CleanSheetRate       float64
	FailedToScoreRate    float64
	Over25Rate           float64
	OpensScoringRate     float64
	AttackStrength       float64
	DefenseWeakness      float64
}

// MeanOdds is the bookmaker-average 1X2 price set for a match.
type MeanOdds struct {
	Home float64
	Draw float64
	Away float64
}

// MatchNumbers is the full numeric input to the prediction engine.
type MatchNumbers struct {
	Home TeamNumbers
	Away TeamNumbers
	Odds MeanOdds
}
