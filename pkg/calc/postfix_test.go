package calc

import "testing"

func TestToPostfix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "precedence reorders multiplication",
			input: "2＋3×4",
			want: []Token{
				{Type: TokenNumber, NumVal: 2},
				{Type: TokenNumber, NumVal: 3},
				{Type: TokenNumber, NumVal: 4},
				{Type: TokenMul},
				{Type: TokenAdd},
			},
		},
		{
			name:  "equal precedence is left associative",
			input: "8−3＋2",
			want: []Token{
				{Type: TokenNumber, NumVal: 8},
				{Type: TokenNumber, NumVal: 3},
				{Type: TokenSub},
				{Type: TokenNumber, NumVal: 2},
				{Type: TokenAdd},
			},
		},
		{
			name:  "percent binds to the preceding operand",
			input: "200＋50%",
			want: []Token{
				{Type: TokenNumber, NumVal: 200},
				{Type: TokenNumber, NumVal: 50},
				{Type: TokenPercent},
				{Type: TokenAdd},
			},
		},
		{
			name:  "percent before multiplication",
			input: "50%×8",
			want: []Token{
				{Type: TokenNumber, NumVal: 50},
				{Type: TokenPercent},
				{Type: TokenNumber, NumVal: 8},
				{Type: TokenMul},
			},
		},
		{
			name:  "trailing operator passes through",
			input: "5＋",
			want: []Token{
				{Type: TokenNumber, NumVal: 5},
				{Type: TokenAdd},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Token{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPostfix(Tokenize(tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("ToPostfix(%q) = %v tokens, want %v", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ToPostfix(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
