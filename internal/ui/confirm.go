package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints message followed by a [y/N] prompt on w and reads one
// line from r. Only "y" or "yes" (case-insensitive) count as approval;
// anything else, including EOF, declines.
func Confirm(r io.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", message)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
