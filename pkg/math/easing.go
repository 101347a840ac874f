package math

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,
	"incubic":   ease.InCubic,
	"outcubic":  ease.OutCubic,
	"insine":    ease.InSine,
	"outsine":   ease.OutSine,
	"inoutsine": ease.InOutSine,
	"inexpo":    ease.InExpo,
	"outexpo":   ease.OutExpo,
	"incirc":    ease.InCirc,
	"outcirc":   ease.OutCirc,
}

// EasingByName looks up an easing function by case-insensitive name
// ("linear", "outquad", ...). Empty names map to linear.
func EasingByName(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return ease.Linear, true
	}
	fn, ok := easings[strings.ToLower(strings.ReplaceAll(name, "_", ""))]
	return fn, ok
}

// Evaluate samples an easing function as a unit curve at x in [0, 1].
// A nil function evaluates as linear.
func Evaluate(fn ease.TweenFunc, x float32) float32 {
	x = mgl32.Clamp(x, 0, 1)
	if fn == nil {
		return x
	}
	return fn(x, 0, 1, 1)
}
