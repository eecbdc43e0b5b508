package calculator

import (
	"math/big"
	"strconv"
)

// DefaultScale is the number of decimal places an Engine keeps when no Scale
// option is given.
const DefaultScale = 18

// EngineOption is an option used when creating an engine.
type EngineOption interface {
	engineOption()
}

type (
	scaleopt int
	roundopt bool
)

func (scaleopt) engineOption() {}
func (roundopt) engineOption() {}

// Scale sets the number of decimal places retained by every value and every
// intermediate result.
func Scale(places int) EngineOption {
	return scaleopt(places)
}

// RoundHalfUp sets whether discarded digits round the result away from zero
// when the first of them is 5 or greater. When false, results are truncated.
func RoundHalfUp(round bool) EngineOption {
	return roundopt(round)
}

// Engine performs fixed-point arithmetic at a fixed scale. An Engine is
// immutable after creation and is safe to use concurrently.
type Engine struct {
	scale int
	round bool
	// shift is 10^scale. It must never be modified.
	shift *big.Int
}

// NewEngine creates an engine. If no options are given, the scale is
// DefaultScale and rounding is half-up. Later options override earlier ones.
// Panics if the scale is negative.
func NewEngine(opts ...EngineOption) *Engine {
	e := Engine{scale: DefaultScale, round: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case scaleopt:
			e.scale = int(opt)
		case roundopt:
			e.round = bool(opt)
		default:
			panic("calculator: unknown option type")
		}
	}
	if e.scale < 0 {
		panic("calculator: negative scale " + strconv.Itoa(e.scale))
	}
	e.shift = pow10(e.scale)
	return &e
}

// Scale returns the number of decimal places the engine retains.
func (e *Engine) Scale() int {
	return e.scale
}

// RoundsHalfUp returns whether the engine rounds rather than truncates.
func (e *Engine) RoundsHalfUp() bool {
	return e.round
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

var defaultEngine = NewEngine()
