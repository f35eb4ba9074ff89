package services

import (
	"sort"

	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

// PlaceholderText is shown when a batch yields nothing to display.
const PlaceholderText = "Nenhum palpite encontrado"

// MarketRow is one line of a fixture card's markets table.
type MarketRow struct {
	MarketKey  string  `json:"mercado"`
	Label      string  `json:"rotulo"`
	Pick       string  `json:"palpite"`
	Confidence string  `json:"confianca"`
	BarWidth   float64 `json:"largura_barra"`
}

// ScoreCard is one exact-score candidate in the sub-block.
type ScoreCard struct {
	Score      string  `json:"placar"`
	Confidence string  `json:"confianca"`
	BarWidth   float64 `json:"largura_barra"`
}

// FixtureCard is the display form of one fixture's predictions: header, the
// two market tables and the optional exact-score block.
type FixtureCard struct {
	MatchLabel    string      `json:"jogo"`
	Competition   string      `json:"competicao"`
	Kickoff       string      `json:"horario"`
	Primary       []MarketRow `json:"mercados_principais"`
	Supplementary []MarketRow `json:"mercados_adicionais"`
	ExactScore    []ScoreCard `json:"resultado_exato,omitempty"`
}

// DisplayPage is a rendered batch. Placeholder is set, with exactly no
// cards, when there was nothing to display.
type DisplayPage struct {
	Cards       []FixtureCard `json:"cards"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// RenderBatch composes one display card per fixture. It is pure and
// stateless: re-invoking re-renders from the same input. Malformed market
// entries are skipped with a warning and never abort the remaining markets
// or fixtures.
func RenderBatch(batch models.Batch) DisplayPage {
	var cards []FixtureCard

	for _, fixture := range batch {
		card := renderFixture(fixture)
		if len(card.Primary) == 0 && len(card.Supplementary) == 0 && len(card.ExactScore) == 0 {
			continue
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return DisplayPage{Placeholder: PlaceholderText}
	}
	return DisplayPage{Cards: cards}
}

func renderFixture(fixture models.FixturePrediction) FixtureCard {
	card := FixtureCard{
		MatchLabel:  fixture.MatchLabel,
		Competition: fixture.Competition,
		Kickoff:     fixture.Kickoff,
	}

	for _, key := range primaryMarketOrder {
		if row, ok := renderSingleMarket(fixture, key); ok {
			card.Primary = append(card.Primary, row)
		}
	}

	for _, key := range supplementaryMarketOrder {
		if key == models.MarketTeamGoals {
			card.Supplementary = append(card.Supplementary, renderTeamGoals(fixture)...)
			continue
		}
		if row, ok := renderSingleMarket(fixture, key); ok {
			card.Supplementary = append(card.Supplementary, row)
		}
	}

	// Unknown keys land after the canonical supplementary markets, in the
	// order they classify, so producer extensions still show up.
	for _, key := range unknownMarketKeys(fixture.Markets) {
		if row, ok := renderSingleMarket(fixture, key); ok {
			card.Supplementary = append(card.Supplementary, row)
		}
	}

	card.ExactScore = renderExactScore(fixture)

	return card
}

// renderSingleMarket renders one pick-and-confidence market into a row.
// Returns false when the market is absent or the entry is malformed.
func renderSingleMarket(fixture models.FixturePrediction, key string) (MarketRow, bool) {
	prediction, err := fixture.Markets.Prediction(key)
	if err != nil {
		logger.Warnf("Skipping market %s of %s: %v", key, fixture.MatchLabel, err)
		return MarketRow{}, false
	}
	if prediction == nil {
		return MarketRow{}, false
	}
	return renderRow(fixture.MatchLabel, key, MarketLabel(key), *prediction)
}

func renderRow(matchLabel, key, label string, p models.MarketPrediction) (MarketRow, bool) {
	if p.Pick == "" || p.Confidence == "" {
		logger.Warnf("Skipping market %s of %s: %v", key, matchLabel, common.ErrMissingField)
		return MarketRow{}, false
	}

	display, width, err := FormatConfidence(p.Confidence)
	if err != nil {
		// Degraded row: keep the pick visible, bar collapses to zero.
		logger.Warnf("Bad confidence %q on market %s of %s", p.Confidence, key, matchLabel)
	}

	return MarketRow{
		MarketKey:  key,
		Label:      label,
		Pick:       p.Pick,
		Confidence: display,
		BarWidth:   width,
	}, true
}

// renderTeamGoals expands gols_por_equipe into up to two rows, one per side
// present.
func renderTeamGoals(fixture models.FixturePrediction) []MarketRow {
	sides, err := fixture.Markets.TeamGoals()
	if err != nil {
		logger.Warnf("Skipping market %s of %s: %v", models.MarketTeamGoals, fixture.MatchLabel, err)
		return nil
	}
	if sides == nil {
		return nil
	}

	var rows []MarketRow
	for _, side := range []struct{ key, label string }{
		{models.SideHome, "Gols Casa"},
		{models.SideAway, "Gols Fora"},
	} {
		prediction, ok := sides[side.key]
		if !ok {
			continue
		}
		if row, ok := renderRow(fixture.MatchLabel, models.MarketTeamGoals, side.label, prediction); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// renderExactScore renders the resultado_exato sub-block in the producer's
// order. The list arrives pre-sorted by descending confidence; it is never
// re-sorted here.
func renderExactScore(fixture models.FixturePrediction) []ScoreCard {
	outcomes, err := fixture.Markets.ExactScores()
	if err != nil {
		logger.Warnf("Skipping market %s of %s: %v", models.MarketExactScore, fixture.MatchLabel, err)
		return nil
	}

	var scoreCards []ScoreCard
	for _, outcome := range outcomes {
		if outcome.Pick == "" || outcome.Confidence == "" {
			logger.Warnf("Skipping exact score of %s: %v", fixture.MatchLabel, common.ErrMissingField)
			continue
		}
		display, width, err := FormatConfidence(outcome.Confidence)
		if err != nil {
			logger.Warnf("Bad confidence %q on exact score of %s", outcome.Confidence, fixture.MatchLabel)
		}
		scoreCards = append(scoreCards, ScoreCard{
			Score:      outcome.Pick,
			Confidence: display,
			BarWidth:   width,
		})
	}
	return scoreCards
}

// unknownMarketKeys returns keys outside the canonical set, sorted for a
// stable layout.
func unknownMarketKeys(markets models.MarketMap) []string {
	known := map[string]bool{
		models.MarketExactScore: true,
		models.MarketTeamGoals:  true,
	}
	for _, key := range primaryMarketOrder {
		known[key] = true
	}
	for _, key := range supplementaryMarketOrder {
		known[key] = true
	}

	var keys []string
	for key := range markets {
		if !known[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
