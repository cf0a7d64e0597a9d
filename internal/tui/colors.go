package tui

// Color constants for the stamm TUI theme
const (
	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (titles, elapsed time)
	ColorSecondaryText = "#B1B8C7" // Secondary text - subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Accent elements, active borders
	ColorAccentBright = "#A78BFA" // Highlights

	// State Colors
	ColorError   = "#EF4444" // Connection errors
	ColorSuccess = "#22C55E" // Running timer
	ColorWarning = "#F59E0B" // Idle state

	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue
)
