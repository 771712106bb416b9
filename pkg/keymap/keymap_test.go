package keymap

import (
	"testing"

	"github.com/antibyte/retrocalc/pkg/calc"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		physical string
		want     string
	}{
		{"+", calc.KeyAdd},
		{"-", calc.KeySub},
		{"*", calc.KeyMul},
		{"/", calc.KeyDiv},
		{"%", calc.KeyPercent},
		{".", calc.KeyPoint},
		{",", calc.KeyPoint},
		{"=", calc.KeyEvaluate},
		{"Enter", calc.KeyEvaluate},
		{"Backspace", calc.KeyDelete},
		{"Delete", calc.KeyDelete},
		{"Escape", calc.KeyClear},
		{"c", calc.KeyClear},
		{"C", calc.KeyClear},
		{"0", "0"},
		{"9", "9"},
		{"＋", calc.KeyAdd},
		{"÷", calc.KeyDiv},
		{"F1", ""},
		{"ArrowUp", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Translate(tt.physical); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.physical, got, tt.want)
		}
	}
}
