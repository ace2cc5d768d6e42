package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

// DateLayout is the calendar date format accepted by every command
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (must be YYYY-MM-DD)", value)
	}
	return t, nil
}

// Check renders a success mark followed by msg
func Check(msg string) string {
	return color.New(color.FgGreen).Sprint("✓") + " " + msg
}

// Muted renders secondary text
func Muted(msg string) string {
	return color.New(color.FgHiBlack).Sprint(msg)
}

// OnOff renders a boolean as a colored active/inactive marker
func OnOff(active bool) string {
	if active {
		return color.New(color.FgGreen).Sprint("active")
	}
	return color.New(color.FgYellow).Sprint("inactive")
}

// Deref returns the pointed string, or fallback for nil
func Deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
