package handlers

import "testing"

func TestCSVCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fiestas", "Fiestas"},
		{"", ""},
		{"=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"+34 965 79 40 00", "'+34 965 79 40 00"},
		{"-5", "'-5"},
		{"@cmd", "'@cmd"},
		{"\tx", "'\tx"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := csvCell(tt.in); got != tt.want {
			t.Errorf("csvCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
