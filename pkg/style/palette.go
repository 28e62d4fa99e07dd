package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette of the CLI. Each color adapts to light and dark terminals.
var (
	AccentColor = lipgloss.AdaptiveColor{
		Light: "#7B2CBF", // Trinity purple
		Dark:  "#C77DFF",
	}

	PathColor = lipgloss.AdaptiveColor{
		Light: "#0969DA",
		Dark:  "#58A6FF",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#CF222E",
		Dark:  "#FF7B72",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6E7781",
		Dark:  "#8B949E",
	}
)
