// Package keymap translates physical keyboard and browser key names
// into the logical key alphabet of the calculator engine. It is a
// pure lookup with no state; the engine itself never sees physical
// key names.
package keymap

import "github.com/antibyte/retrocalc/pkg/calc"

// Translate maps a physical key name (as delivered by a browser
// KeyboardEvent or a keypad button id) to a logical calculator key.
// Unknown keys map to the empty string and are ignored by the engine.
func Translate(physical string) string {
	switch physical {
	case "+":
		return calc.KeyAdd
	case "-":
		return calc.KeySub
	case "*":
		return calc.KeyMul
	case "/":
		return calc.KeyDiv
	case "%":
		return calc.KeyPercent
	case ".", ",":
		return calc.KeyPoint
	case "=", "Enter":
		return calc.KeyEvaluate
	case "Backspace", "Delete", "DEL":
		return calc.KeyDelete
	case "Escape", "c", "C":
		return calc.KeyClear
	}

	// digits pass through unchanged
	if len(physical) == 1 && physical[0] >= '0' && physical[0] <= '9' {
		return physical
	}

	// the calculator glyphs themselves are accepted as-is so keypad
	// buttons can send them directly
	switch physical {
	case calc.KeyAdd, calc.KeySub, calc.KeyMul, calc.KeyDiv:
		return physical
	}

	return ""
}
