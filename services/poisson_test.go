package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilbd/analise-apostas/models"
)

func testNumbers() models.MatchNumbers {
	return models.MatchNumbers{
		Home: models.TeamNumbers{AttackStrength: 1.2, DefenseWeakness: 0.9},
		Away: models.TeamNumbers{AttackStrength: 0.8, DefenseWeakness: 1.1},
	}
}

func TestComputeProbabilitiesExpectedGoals(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	// lambda_home = home attack * away defense * home advantage
	assert.InDelta(t, 1.2*1.1*1.3, probs.HomeExpectedGoals, 1e-9)
	assert.InDelta(t, 0.8*0.9, probs.AwayExpectedGoals, 1e-9)
}

func TestMatchOddsSumToMatrixMass(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	total := probs.MatchOdds.Home + probs.MatchOdds.Draw + probs.MatchOdds.Away
	// The matrix truncates at 5 goals per side, so the mass is slightly
	// below 1 but must never exceed it.
	assert.Greater(t, total, 0.98)
	assert.LessOrEqual(t, total, 1.0+1e-9)

	assert.Greater(t, probs.MatchOdds.Home, probs.MatchOdds.Away,
		"stronger home side must be favourite")
}

func TestOverUnderComplementarity(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	for _, line := range []string{"05", "15", "25", "35"} {
		over := probs.OverUnder["over_"+line]
		under := probs.OverUnder["under_"+line]
		assert.InDelta(t, 1.0, over+under, 1e-9, "line %s", line)
	}

	// Higher lines are monotonically harder to clear.
	assert.Greater(t, probs.OverUnder["over_05"], probs.OverUnder["over_15"])
	assert.Greater(t, probs.OverUnder["over_15"], probs.OverUnder["over_25"])
	assert.Greater(t, probs.OverUnder["over_25"], probs.OverUnder["over_35"])
}

func TestBothTeamsScore(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())
	assert.InDelta(t, 1.0, probs.BothTeamsScore.Yes+probs.BothTeamsScore.No, 1e-9)
	assert.Greater(t, probs.BothTeamsScore.Yes, 0.0)
	assert.Less(t, probs.BothTeamsScore.Yes, 1.0)
}

func TestFirstHalfGoals(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	assert.InDelta(t, 1.0, probs.FirstHalfGoals["over_05"]+probs.FirstHalfGoals["under_05"], 1e-9)
	assert.InDelta(t, 1.0, probs.FirstHalfGoals["over_15"]+probs.FirstHalfGoals["under_15"], 1e-9)

	// First-half lambdas are scaled down, so the half line is harder to
	// clear than the full-match one.
	assert.Less(t, probs.FirstHalfGoals["over_05"], probs.OverUnder["over_05"])
}

func TestExactScoresTopThreeDescending(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	require.Len(t, probs.ExactScores, 3)
	assert.GreaterOrEqual(t, probs.ExactScores[0].Probability, probs.ExactScores[1].Probability)
	assert.GreaterOrEqual(t, probs.ExactScores[1].Probability, probs.ExactScores[2].Probability)

	for _, score := range probs.ExactScores {
		assert.Regexp(t, `^\d-\d$`, score.Score)
	}
}

func TestTeamGoalLines(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	assert.Greater(t, probs.TeamGoals.HomeOver05, probs.TeamGoals.HomeOver15)
	assert.Greater(t, probs.TeamGoals.AwayOver05, probs.TeamGoals.AwayOver15)
	assert.Greater(t, probs.TeamGoals.HomeOver05, probs.TeamGoals.AwayOver05,
		"higher lambda means more likely to score")
}

func TestHighestScoringHalfDistribution(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())
	half := probs.HighestScoringHalf
	assert.InDelta(t, 1.0, half.First+half.Second+half.Equal, 1e-9)
	assert.Equal(t, 0.6, half.Second)
}

func TestAsianHandicapLines(t *testing.T) {
	probs := ComputeProbabilities(testNumbers())

	require.Len(t, probs.AsianHandicap, len(handicapLines))
	for _, line := range handicapLines {
		entry, ok := probs.AsianHandicap[handicapKey(line)]
		require.True(t, ok, "missing line %g", line)
		assert.InDelta(t, 1.0, entry.Home+entry.Draw+entry.Away, 1e-9, "line %g", line)
	}

	// A half-goal line cannot push.
	assert.Equal(t, 0.0, probs.AsianHandicap["ha_0.5"].Draw)
	// Giving the home side goals raises its cover probability.
	assert.Greater(t, probs.AsianHandicap["ha_2"].Home, probs.AsianHandicap["ha_-2"].Home)
}

func TestComputeProbabilitiesDeterministic(t *testing.T) {
	first := ComputeProbabilities(testNumbers())
	second := ComputeProbabilities(testNumbers())
	assert.Equal(t, first, second, "fixed seed must reproduce the simulation")
}

func TestPoissonPMF(t *testing.T) {
	// P(X=0) = e^-lambda.
	assert.InDelta(t, math.Exp(-1.5), poissonPMF(0, 1.5), 1e-12)
	// Degenerate lambda collapses to a point mass at zero.
	assert.Equal(t, 1.0, poissonPMF(0, 0))
	assert.Equal(t, 0.0, poissonPMF(2, 0))

	sum := 0.0
	for k := 0; k <= 40; k++ {
		sum += poissonPMF(k, 2.3)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
