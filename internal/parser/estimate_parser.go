package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseEstimate parses a task estimate into minutes
// Supported formats:
// - plain minutes (e.g., "90")
// - minutes with unit (e.g., "45m", "45 min")
// - hours with unit (e.g., "2h", "1.5 hours")
// - combined (e.g., "1h30m")
func ParseEstimate(input string) (*int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return nil, fmt.Errorf("estimate must not be negative")
		}
		return &minutes, nil
	}

	if minutes, err := parseCombined(input); err == nil {
		return minutes, nil
	}
	if minutes, err := parseSingleUnit(input); err == nil {
		return minutes, nil
	}

	return nil, fmt.Errorf("invalid estimate format. Use: minutes, Xm, Xh or XhYm")
}

// parseCombined parses the XhYm form
func parseCombined(input string) (*int, error) {
	combinedRegex := regexp.MustCompile(`^(\d+)h\s*(\d+)m$`)
	matches := combinedRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("not a combined estimate")
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	if minutes > 59 {
		return nil, fmt.Errorf("minutes part must be below 60")
	}

	total := hours*60 + minutes
	return &total, nil
}

// parseSingleUnit parses "X unit" with a minute or hour unit
func parseSingleUnit(input string) (*int, error) {
	unitRegex := regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(m|min|minute|minutes|h|hr|hour|hours)$`)
	matches := unitRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid estimate format")
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	var total int
	switch matches[2] {
	case "m", "min", "minute", "minutes":
		total = int(amount)
	default:
		total = int(amount * 60)
	}
	return &total, nil
}

// FormatEstimate formats minutes for display
func FormatEstimate(estimate *int) string {
	if estimate == nil {
		return ""
	}

	minutes := *estimate
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
