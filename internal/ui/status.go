package ui

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// status logs failures and remembers the latest one for the status line.
type status struct {
	logger     *log.Logger
	showErrors bool
	last       error
}

func (s *status) fail(msg string, err error, kv ...any) {
	s.logger.Error(msg, append(kv, "error", err)...)
	s.last = fmt.Errorf("%s: %w", msg, err)
}

func (s *status) clear() { s.last = nil }

// View returns the status line, empty unless errors are shown and one occurred.
func (s *status) View() string {
	if !s.showErrors || s.last == nil {
		return ""
	}
	return styles.err.Render(s.last.Error())
}
