package security

import "testing"

// TestSanitizeText はHTMLタグが除去されプレーンテキストが残ることを検証する。
func TestSanitizeText(t *testing.T) {
	s := NewInputSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "Groceries at the market", want: "Groceries at the market"},
		{name: "script tag removed", input: `<script>alert("x")</script>Lunch`, want: "Lunch"},
		{name: "inline tags stripped", input: "<b>Rent</b> payment", want: "Rent payment"},
		{name: "entities unescaped", input: "Fish &amp; chips", want: "Fish & chips"},
		{name: "whitespace trimmed", input: "  Coffee  ", want: "Coffee"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeText_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestSanitizeText_Idempotent(t *testing.T) {
	s := NewInputSanitizer()

	input := `<i>Dinner</i> &amp; drinks`
	first := s.SanitizeText(input)
	second := s.SanitizeText(first)
	if first != second {
		t.Errorf("not idempotent: first = %q, second = %q", first, second)
	}
}
