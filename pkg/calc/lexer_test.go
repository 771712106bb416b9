package calc

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single number",
			input: "42",
			want:  []Token{{Type: TokenNumber, NumVal: 42}},
		},
		{
			name:  "decimal number",
			input: "3.25",
			want:  []Token{{Type: TokenNumber, NumVal: 3.25}},
		},
		{
			name:  "simple addition",
			input: "2＋3",
			want: []Token{
				{Type: TokenNumber, NumVal: 2},
				{Type: TokenAdd},
				{Type: TokenNumber, NumVal: 3},
			},
		},
		{
			name:  "all operators",
			input: "1＋2−3×4÷5",
			want: []Token{
				{Type: TokenNumber, NumVal: 1},
				{Type: TokenAdd},
				{Type: TokenNumber, NumVal: 2},
				{Type: TokenSub},
				{Type: TokenNumber, NumVal: 3},
				{Type: TokenMul},
				{Type: TokenNumber, NumVal: 4},
				{Type: TokenDiv},
				{Type: TokenNumber, NumVal: 5},
			},
		},
		{
			name:  "percent after number",
			input: "50%",
			want: []Token{
				{Type: TokenNumber, NumVal: 50},
				{Type: TokenPercent},
			},
		},
		{
			name:  "trailing operator",
			input: "7×",
			want: []Token{
				{Type: TokenNumber, NumVal: 7},
				{Type: TokenMul},
			},
		},
		{
			name:  "unknown runes are dropped",
			input: "1a＋b2",
			want: []Token{
				{Type: TokenNumber, NumVal: 1},
				{Type: TokenAdd},
				{Type: TokenNumber, NumVal: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v tokens, want %v", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
