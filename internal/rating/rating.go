package rating

import "math"

// Outcome of a match from one player's point of view.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// DefaultKFactor is the maximum rating movement for a single match.
const DefaultKFactor = 32.0

// Model computes rating deltas from match outcomes.
type Model interface {
	Delta(playerRating, opponentRating float64, outcome Outcome) float64
}

// KFactorModel is a Model whose K-factor can be overridden per match.
type KFactorModel interface {
	Model
	WithKFactor(k float64) Model
}

// Config holds the rating constants.
type Config struct {
	KFactor float64 // default: 32
	Scale   float64 // default: 400 (logistic spread)
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		KFactor: DefaultKFactor,
		Scale:   400,
	}
}

// Elo is the logistic expected-score model.
type Elo struct {
	config Config
}

var _ KFactorModel = (*Elo)(nil)

// NewElo creates an Elo model; zero fields fall back to defaults.
func NewElo(config Config) *Elo {
	if config.KFactor <= 0 {
		config.KFactor = DefaultKFactor
	}
	if config.Scale <= 0 {
		config.Scale = 400
	}
	return &Elo{config: config}
}

// KFactor returns the configured K-factor.
func (e *Elo) KFactor() float64 {
	return e.config.KFactor
}

// WithKFactor returns a copy using k; non-positive k keeps the current value.
func (e *Elo) WithKFactor(k float64) Model {
	if k <= 0 {
		return e
	}
	cfg := e.config
	cfg.KFactor = k
	return &Elo{config: cfg}
}

// Expected returns the probability that a player rated playerRating beats opponentRating.
// Formula: 1 / (1 + 10^((opponent - player) / scale))
func (e *Elo) Expected(playerRating, opponentRating float64) float64 {
	return 1 / (1 + math.Pow(10, (opponentRating-playerRating)/e.config.Scale))
}

// Delta returns K * (actual - expected) for the given outcome.
func (e *Elo) Delta(playerRating, opponentRating float64, outcome Outcome) float64 {
	return e.config.KFactor * (ActualScore(outcome) - e.Expected(playerRating, opponentRating))
}

// ActualScore maps an outcome to 1, 0.5 or 0.
func ActualScore(outcome Outcome) float64 {
	switch outcome {
	case OutcomeWin:
		return 1
	case OutcomeDraw:
		return 0.5
	default:
		return 0
	}
}

// Opposite flips an outcome to the opponent's perspective.
func Opposite(outcome Outcome) Outcome {
	switch outcome {
	case OutcomeWin:
		return OutcomeLoss
	case OutcomeLoss:
		return OutcomeWin
	default:
		return OutcomeDraw
	}
}
