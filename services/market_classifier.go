package services

import "github.com/guilbd/analise-apostas/models"

// MarketClass splits markets into the two display zones of a fixture card.
type MarketClass int

const (
	// MarketPrimary covers the three most prominent bet types, shown first.
	MarketPrimary MarketClass = iota
	// MarketSupplementary covers every other analysed bet type.
	MarketSupplementary
)

// primaryMarkets is the fixed classification table. Unknown keys are
// supplementary by default.
var primaryMarkets = map[string]bool{
	models.MarketMatchOdds:      true,
	models.MarketOverUnder:      true,
	models.MarketBothTeamsScore: true,
}

// primaryMarketOrder and supplementaryMarketOrder are the canonical emission
// orders. Rows are emitted in this order, never in map iteration order, so
// the layout is stable across runs.
var primaryMarketOrder = []string{
	models.MarketMatchOdds,
	models.MarketOverUnder,
	models.MarketBothTeamsScore,
}

var supplementaryMarketOrder = []string{
	models.MarketFirstHalfGoals,
	models.MarketAsianHandicap,
	models.MarketHighestScoringHalf,
	models.MarketTeamGoals,
}

// marketLabels maps wire keys to the labels shown in the tables.
var marketLabels = map[string]string{
	models.MarketMatchOdds:          "1X2",
	models.MarketOverUnder:          "Over/Under",
	models.MarketBothTeamsScore:     "Ambas Marcam",
	models.MarketFirstHalfGoals:     "Gols 1º Tempo",
	models.MarketAsianHandicap:      "Handicap Asiático",
	models.MarketHighestScoringHalf: "Tempo com Mais Gols",
}

// ClassifyMarket labels a market key as primary or supplementary. Pure and
// deterministic; no error conditions.
func ClassifyMarket(key string) MarketClass {
	if primaryMarkets[key] {
		return MarketPrimary
	}
	return MarketSupplementary
}

// MarketLabel returns the display label for a market key, falling back to
// the key itself for markets the table does not know.
func MarketLabel(key string) string {
	if label, ok := marketLabels[key]; ok {
		return label
	}
	return key
}
