// Package handler provides flag parsing utilities
package handler

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/colorutil"
	"github.com/motoloc/motocrm/internal/models"
)

// RequireString returns a flag validator for parseFlags that rejects blank
// values of the named string flags
func RequireString(names ...string) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		for _, name := range names {
			if _, err := ParseString(cmd, name); err != nil {
				return err
			}
		}
		return nil
	}
}

// ParseString extracts a required string flag
func ParseString(cmd *cobra.Command, flagName string) (string, error) {
	value, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", flagName)
	}
	return value, nil
}

// ParseColor extracts and validates an optional color flag
func ParseColor(cmd *cobra.Command, flagName string) (string, error) {
	color, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if color != "" && !colorutil.ValidHex(color) {
		return "", fmt.Errorf("%s must be in hex format #RRGGBB (e.g., #FF0000), got: %s", flagName, color)
	}
	return color, nil
}

// ParseDirection extracts a left/right direction flag
func ParseDirection(cmd *cobra.Command, flagName string) (models.Direction, error) {
	raw, err := ParseString(cmd, flagName)
	if err != nil {
		return "", err
	}
	dir := models.Direction(strings.ToLower(raw))
	if !dir.Valid() {
		return "", fmt.Errorf("invalid %s '%s' (must be: left, right)", flagName, raw)
	}
	return dir, nil
}

// OutputFormats extracts JSON and Quiet output flags. Commands without the
// flags get human-readable output.
func OutputFormats(cmd *cobra.Command) (jsonOutput bool, quietMode bool, err error) {
	jsonOutput, _ = cmd.Flags().GetBool("json")
	quietMode, _ = cmd.Flags().GetBool("quiet")
	if jsonOutput && quietMode {
		return false, false, fmt.Errorf("--json and --quiet cannot be combined")
	}
	return jsonOutput, quietMode, nil
}
