package models

import "encoding/json"

// Market keys as they appear on the wire. The JSON shape is the contract
// between the analysis engine and every renderer, so the original Portuguese
// keys are kept verbatim.
const (
	MarketMatchOdds          = "1x2"
	MarketOverUnder          = "over_under"
	MarketBothTeamsScore     = "ambas_marcam"
	MarketFirstHalfGoals     = "gols_ht"
	MarketExactScore         = "resultado_exato"
	MarketTeamGoals          = "gols_por_equipe"
	MarketHighestScoringHalf = "tempo_mais_gols"
	MarketAsianHandicap      = "handicap_asiatico"
)

// Sides of the per-team goals market.
const (
	SideHome = "casa"
	SideAway = "fora"
)

// MarketPrediction is a single pick with its confidence. Confidence always
// carries a % suffix, e.g. "55.0%".
type MarketPrediction struct {
	Pick       string `json:"palpite"`
	Confidence string `json:"confianca"`
}

// ScoredOutcome is one exact-score candidate, e.g. pick "2-1".
type ScoredOutcome struct {
	Pick       string `json:"palpite"`
	Confidence string `json:"confianca"`
}

// MarketMap holds one fixture's markets keyed by market name. Values stay
// raw because the shape varies per market: most keys hold a single
// MarketPrediction, resultado_exato holds an ordered list of ScoredOutcome
// and gols_por_equipe a casa/fora mapping. Unknown keys are preserved and
// rendered as supplementary rows when they decode to a MarketPrediction.
type MarketMap map[string]json.RawMessage

// Prediction returns the market decoded as a single pick.
func (m MarketMap) Prediction(key string) (*MarketPrediction, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	var p MarketPrediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExactScores returns the resultado_exato list in producer order.
func (m MarketMap) ExactScores() ([]ScoredOutcome, error) {
	raw, ok := m[MarketExactScore]
	if !ok {
		return nil, nil
	}
	var outcomes []ScoredOutcome
	if err := json.Unmarshal(raw, &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// TeamGoals returns the gols_por_equipe mapping (keys casa/fora).
func (m MarketMap) TeamGoals() (map[string]MarketPrediction, error) {
	raw, ok := m[MarketTeamGoals]
	if !ok {
		return nil, nil
	}
	var sides map[string]MarketPrediction
	if err := json.Unmarshal(raw, &sides); err != nil {
		return nil, err
	}
	return sides, nil
}

// Set stores a value under the given market key. Used by the tipster when
// assembling a fixture's markets.
func (m MarketMap) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

// FixturePrediction is one fixture's picks across all analysed markets.
type FixturePrediction struct {
	MatchLabel  string    `json:"jogo"`
	Competition string    `json:"competicao"`
	Kickoff     string    `json:"horario"`
	Markets     MarketMap `json:"mercados"`
}

// Batch is one complete set of predictions generated together, persisted
// under palpites_<timestamp>.json and read-only afterwards.
type Batch []FixturePrediction
