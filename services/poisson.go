package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/guilbd/analise-apostas/models"
)

// Engine tunables. These mirror the values the original model was fitted
// with; changing them changes every downstream confidence.
const (
	homeAdvantageFactor = 1.3
	maxGoalsPerTeam     = 5
	firstHalfGoalShare  = 0.4
	handicapSimulations = 10000
	handicapSeed        = 42
)

// handicapLines are the Asian handicap lines analysed per match.
var handicapLines = []float64{-2.0, -1.5, -1.0, -0.5, 0, 0.5, 1.0, 1.5, 2.0}

// OutcomeProbs is a home/draw/away probability triple.
type OutcomeProbs struct {
	Home float64
	Draw float64
	Away float64
}

// ScoreProb is one exact scoreline with its probability.
type ScoreProb struct {
	Score       string
	Probability float64
}

// YesNoProbs is a two-way market probability pair.
type YesNoProbs struct {
	Yes float64
	No  float64
}

// TeamGoalProbs holds per-side goal-line probabilities.
type TeamGoalProbs struct {
	HomeOver05 float64
	HomeOver15 float64
	AwayOver05 float64
	AwayOver15 float64
}

// HalfProbs is the highest-scoring-half distribution.
type HalfProbs struct {
	First  float64
	Second float64
	Equal  float64
}

// MatchProbabilities is the full probability output for one fixture.
type MatchProbabilities struct {
	HomeExpectedGoals float64
	AwayExpectedGoals float64

	MatchOdds          OutcomeProbs
	OverUnder          map[string]float64 // over_05 .. under_35
	BothTeamsScore     YesNoProbs
	FirstHalfGoals     map[string]float64 // over_05, under_05, over_15, under_15
	ExactScores        []ScoreProb        // top 3, descending probability
	TeamGoals          TeamGoalProbs
	HighestScoringHalf HalfProbs
	AsianHandicap      map[string]OutcomeProbs // keyed ha_<line>
}

// ComputeProbabilities derives all market probabilities for one match from
// its numeric profile using a Poisson goal model. Expected goals come from
// attack strength times the opponent's defense weakness, with the home side
// boosted by the home advantage factor.
func ComputeProbabilities(numbers models.MatchNumbers) *MatchProbabilities {
	lambdaHome := numbers.Home.AttackStrength * numbers.Away.DefenseWeakness * homeAdvantageFactor
	lambdaAway := numbers.Away.AttackStrength * numbers.Home.DefenseWeakness

	matrix := scoreMatrix(lambdaHome, lambdaAway)

	probs := &MatchProbabilities{
		HomeExpectedGoals: lambdaHome,
		AwayExpectedGoals: lambdaAway,
		MatchOdds:         matchOddsFromMatrix(matrix),
		OverUnder:         overUnderFromMatrix(matrix),
		BothTeamsScore:    bothTeamsScoreFromMatrix(matrix),
		FirstHalfGoals:    firstHalfGoals(lambdaHome, lambdaAway),
		ExactScores:       topScores(matrix, 3),
		TeamGoals: TeamGoalProbs{
			HomeOver05: 1 - poissonPMF(0, lambdaHome),
			HomeOver15: 1 - poissonPMF(0, lambdaHome) - poissonPMF(1, lambdaHome),
			AwayOver05: 1 - poissonPMF(0, lambdaAway),
			AwayOver15: 1 - poissonPMF(0, lambdaAway) - poissonPMF(1, lambdaAway),
		},
		// Fixed empirical split: most goals fall in the second half.
		HighestScoringHalf: HalfProbs{First: 0.2, Second: 0.6, Equal: 0.2},
		AsianHandicap:      asianHandicap(lambdaHome, lambdaAway),
	}

	return probs
}

// scoreMatrix builds P(home=i, away=j) for i,j in [0,maxGoalsPerTeam].
func scoreMatrix(lambdaHome, lambdaAway float64) [][]float64 {
	matrix := make([][]float64, maxGoalsPerTeam+1)
	for i := range matrix {
		matrix[i] = make([]float64, maxGoalsPerTeam+1)
		for j := range matrix[i] {
			matrix[i][j] = poissonPMF(i, lambdaHome) * poissonPMF(j, lambdaAway)
		}
	}
	return matrix
}

// matchOddsFromMatrix sums the matrix triangles: lower = home win,
// diagonal = draw, upper = away win.
func matchOddsFromMatrix(matrix [][]float64) OutcomeProbs {
	var probs OutcomeProbs
	for i := range matrix {
		for j := range matrix[i] {
			switch {
			case i > j:
				probs.Home += matrix[i][j]
			case i == j:
				probs.Draw += matrix[i][j]
			default:
				probs.Away += matrix[i][j]
			}
		}
	}
	return probs
}

func overUnderFromMatrix(matrix [][]float64) map[string]float64 {
	totals := make([]float64, 2*maxGoalsPerTeam+1)
	for i := range matrix {
		for j := range matrix[i] {
			totals[i+j] += matrix[i][j]
		}
	}

	under := func(line int) float64 {
		sum := 0.0
		for goals := 0; goals <= line; goals++ {
			sum += totals[goals]
		}
		return sum
	}

	result := map[string]float64{}
	for _, line := range []int{0, 1, 2, 3} {
		key := fmt.Sprintf("%d5", line)
		result["under_"+key] = under(line)
		result["over_"+key] = 1 - under(line)
	}
	return result
}

func bothTeamsScoreFromMatrix(matrix [][]float64) YesNoProbs {
	// P(either side blanks) = P(home=0) + P(away=0) - P(0-0).
	homeBlank := 0.0
	awayBlank := 0.0
	for k := 0; k <= maxGoalsPerTeam; k++ {
		homeBlank += matrix[0][k]
		awayBlank += matrix[k][0]
	}
	no := homeBlank + awayBlank - matrix[0][0]
	return YesNoProbs{Yes: 1 - no, No: no}
}

// firstHalfGoals scales both lambdas by the first-half goal share and
// derives the 0.5 and 1.5 total-goal lines analytically.
func firstHalfGoals(lambdaHome, lambdaAway float64) map[string]float64 {
	htHome := lambdaHome * firstHalfGoalShare
	htAway := lambdaAway * firstHalfGoalShare

	under05 := poissonPMF(0, htHome) * poissonPMF(0, htAway)
	under15 := under05 +
		poissonPMF(1, htHome)*poissonPMF(0, htAway) +
		poissonPMF(0, htHome)*poissonPMF(1, htAway)

	return map[string]float64{
		"over_05":  1 - under05,
		"under_05": under05,
		"over_15":  1 - under15,
		"under_15": under15,
	}
}

// topScores returns the n most likely exact scorelines, descending.
func topScores(matrix [][]float64, n int) []ScoreProb {
	var scores []ScoreProb
	for i := range matrix {
		for j := range matrix[i] {
			scores = append(scores, ScoreProb{
				Score:       fmt.Sprintf("%d-%d", i, j),
				Probability: matrix[i][j],
			})
		}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Probability > scores[b].Probability
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// asianHandicap estimates each line by simulation: draw goal counts for both
// sides, apply the line to the goal difference and count the outcomes. The
// seed is fixed so a rerun over the same stats reproduces the same batch.
func asianHandicap(lambdaHome, lambdaAway float64) map[string]OutcomeProbs {
	result := make(map[string]OutcomeProbs, len(handicapLines))

	for _, line := range handicapLines {
		rng := rand.New(rand.NewSource(handicapSeed))

		var home, draw, away int
		for i := 0; i < handicapSimulations; i++ {
			diff := float64(poissonSample(lambdaHome, rng)-poissonSample(lambdaAway, rng)) + line
			switch {
			case diff > 0:
				home++
			case diff == 0:
				draw++
			default:
				away++
			}
		}

		result[handicapKey(line)] = OutcomeProbs{
			Home: float64(home) / handicapSimulations,
			Draw: float64(draw) / handicapSimulations,
			Away: float64(away) / handicapSimulations,
		}
	}
	return result
}

func handicapKey(line float64) string {
	return fmt.Sprintf("ha_%g", line)
}

// poissonPMF is P(X = k) for X ~ Poisson(lambda).
func poissonPMF(k int, lambda float64) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logP := -lambda + float64(k)*math.Log(lambda) - logFactorial(k)
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	sum := 0.0
	for i := 2; i <= k; i++ {
		sum += math.Log(float64(i))
	}
	return sum
}

// poissonSample draws one value using Knuth's algorithm, with a normal
// approximation for large lambda.
func poissonSample(lambda float64, rng *rand.Rand) int {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		limit := math.Exp(-lambda)
		k := 0
		p := 1.0
		for p > limit {
			k++
			p *= rng.Float64()
		}
		return k - 1
	}
	normal := rng.NormFloat64()
	return int(math.Round(lambda + math.Sqrt(lambda)*normal))
}
