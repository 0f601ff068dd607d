package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  bool
	}{
		{"Yes", "y\n", true},
		{"YesWord", "yes\n", true},
		{"YesUpper", "Y\n", true},
		{"No", "n\n", false},
		{"Enter", "\n", false},
		{"Garbage", "maybe\n", false},
		{"EOF", "", false},
		{"YesNoNewline", "y", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tc.input), &out, "Leave the queue?")
			if got != tc.want {
				t.Errorf("Confirm(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt missing [y/N]: %q", out.String())
			}
		})
	}
}
