package cli

// Default values for CLI flags and output.
const (
	// MaxDescriptionLength is the maximum length of an add-on description to display.
	MaxDescriptionLength = 50
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// setCommandArgs is the number of arguments expected by set commands.
	setCommandArgs = 2
)
