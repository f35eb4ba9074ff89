package services

import (
	"fmt"
	"strings"

	"github.com/guilbd/analise-apostas/models"
)

// Tipster turns market probabilities into display-format picks. A market
// only gets a pick when its probability clears that market's threshold;
// weak edges stay off the card.
type Tipster struct{}

func NewTipster() *Tipster {
	return &Tipster{}
}

// BuildFixturePrediction assembles one fixture's markets from its computed
// probabilities.
func (t *Tipster) BuildFixturePrediction(fixture models.Fixture, probs *MatchProbabilities) (models.FixturePrediction, error) {
	markets := models.MarketMap{}

	setters := []func(models.MarketMap, *MatchProbabilities) error{
		t.setMatchOdds,
		t.setOverUnder,
		t.setBothTeamsScore,
		t.setFirstHalfGoals,
		t.setExactScores,
		t.setTeamGoals,
		t.setHighestScoringHalf,
		t.setAsianHandicap,
	}
	for _, set := range setters {
		if err := set(markets, probs); err != nil {
			return models.FixturePrediction{}, err
		}
	}

	return models.FixturePrediction{
		MatchLabel:  fixture.Label(),
		Competition: fixture.Competition,
		Kickoff:     fixture.Kickoff,
		Markets:     markets,
	}, nil
}

// setMatchOdds always picks the most likely 1X2 outcome.
func (t *Tipster) setMatchOdds(markets models.MarketMap, probs *MatchProbabilities) error {
	pick, probability := "casa", probs.MatchOdds.Home
	if probs.MatchOdds.Draw > probability {
		pick, probability = "empate", probs.MatchOdds.Draw
	}
	if probs.MatchOdds.Away > probability {
		pick, probability = "fora", probs.MatchOdds.Away
	}
	return markets.Set(models.MarketMatchOdds, pickOf(pick, probability))
}

// setOverUnder tries the 2.5 line first, then falls back to alternative
// lines that clear a higher threshold. No pick when nothing clears.
func (t *Tipster) setOverUnder(markets models.MarketMap, probs *MatchProbabilities) error {
	ou := probs.OverUnder

	switch {
	case ou["over_25"] > 0.55:
		return markets.Set(models.MarketOverUnder, pickOf("over_25", ou["over_25"]))
	case ou["under_25"] > 0.55:
		return markets.Set(models.MarketOverUnder, pickOf("under_25", ou["under_25"]))
	}

	for _, line := range []string{"over_15", "under_35", "over_35"} {
		if ou[line] > 0.6 {
			return markets.Set(models.MarketOverUnder, pickOf(line, ou[line]))
		}
	}
	return nil
}

func (t *Tipster) setBothTeamsScore(markets models.MarketMap, probs *MatchProbabilities) error {
	pick, probability := "sim", probs.BothTeamsScore.Yes
	if probs.BothTeamsScore.No > probability {
		pick, probability = "nao", probs.BothTeamsScore.No
	}
	if probability <= 0.6 {
		return nil
	}
	return markets.Set(models.MarketBothTeamsScore, pickOf(pick, probability))
}

func (t *Tipster) setFirstHalfGoals(markets models.MarketMap, probs *MatchProbabilities) error {
	ht := probs.FirstHalfGoals
	switch {
	case ht["over_05"] > 0.65:
		return markets.Set(models.MarketFirstHalfGoals, pickOf("over_05", ht["over_05"]))
	case ht["under_15"] > 0.65:
		return markets.Set(models.MarketFirstHalfGoals, pickOf("under_15", ht["under_15"]))
	}
	return nil
}

// setExactScores always emits the top-3 block, already ordered by the
// engine.
func (t *Tipster) setExactScores(markets models.MarketMap, probs *MatchProbabilities) error {
	outcomes := make([]models.ScoredOutcome, 0, len(probs.ExactScores))
	for _, score := range probs.ExactScores {
		outcomes = append(outcomes, models.ScoredOutcome{
			Pick:       score.Score,
			Confidence: formatProbability(score.Probability),
		})
	}
	return markets.Set(models.MarketExactScore, outcomes)
}

// setTeamGoals emits a side's row only when that side's line clears its
// threshold, so the market may carry one, both or neither side.
func (t *Tipster) setTeamGoals(markets models.MarketMap, probs *MatchProbabilities) error {
	sides := map[string]models.MarketPrediction{}

	tg := probs.TeamGoals
	switch {
	case tg.HomeOver15 > 0.6:
		sides[models.SideHome] = pickOf("over_15", tg.HomeOver15)
	case tg.HomeOver05 > 0.7:
		sides[models.SideHome] = pickOf("over_05", tg.HomeOver05)
	}
	if tg.AwayOver05 > 0.6 {
		sides[models.SideAway] = pickOf("over_05", tg.AwayOver05)
	}

	if len(sides) == 0 {
		return nil
	}
	return markets.Set(models.MarketTeamGoals, sides)
}

func (t *Tipster) setHighestScoringHalf(markets models.MarketMap, probs *MatchProbabilities) error {
	half := probs.HighestScoringHalf
	pick, probability := "primeiro", half.First
	if half.Second > probability {
		pick, probability = "segundo", half.Second
	}
	if half.Equal > probability {
		pick, probability = "igual", half.Equal
	}
	if probability <= 0.5 {
		return nil
	}
	return markets.Set(models.MarketHighestScoringHalf, pickOf(pick, probability))
}

// setAsianHandicap picks the line and side with the best expected value at a
// reference price of 1.9, requiring at least 60% on the chosen side.
func (t *Tipster) setAsianHandicap(markets models.MarketMap, probs *MatchProbabilities) error {
	const referencePrice = 1.9

	bestValue := 0.0
	bestKey := ""
	bestSide := ""
	bestProb := 0.0

	for _, line := range handicapLines {
		key := handicapKey(line)
		outcome := probs.AsianHandicap[key]

		if outcome.Home > 0.6 && outcome.Home*referencePrice > bestValue {
			bestValue = outcome.Home * referencePrice
			bestKey, bestSide, bestProb = key, "casa", outcome.Home
		}
		if outcome.Away > 0.6 && outcome.Away*referencePrice > bestValue {
			bestValue = outcome.Away * referencePrice
			bestKey, bestSide, bestProb = key, "fora", outcome.Away
		}
	}

	if bestKey == "" {
		return nil
	}

	line := strings.TrimPrefix(bestKey, "ha_")
	return markets.Set(models.MarketAsianHandicap, models.MarketPrediction{
		Pick:       fmt.Sprintf("%s (%s)", bestSide, signedLine(line)),
		Confidence: formatProbability(bestProb),
	})
}

// pickOf formats a pick the way the display layer expects: upper case with
// underscores opened into spaces.
func pickOf(pick string, probability float64) models.MarketPrediction {
	return models.MarketPrediction{
		Pick:       strings.ToUpper(strings.ReplaceAll(pick, "_", " ")),
		Confidence: formatProbability(probability),
	}
}

func formatProbability(probability float64) string {
	return fmt.Sprintf("%.1f%%", probability*100)
}

func signedLine(line string) string {
	if strings.HasPrefix(line, "-") || line == "0" {
		return line
	}
	return "+" + line
}
