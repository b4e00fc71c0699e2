package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat TUI
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	// User is the accent of user bubbles, Assistant of answer bubbles
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// DefaultTUITheme is used when no theme or an unknown theme is configured
const DefaultTUITheme = "tokyonight"

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Border:      lipgloss.Color("#414868"),
		User:        lipgloss.Color("#9ece6a"),
		Assistant:   lipgloss.Color("#7aa2f7"),
		Accent:      lipgloss.Color("#bb9af7"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Border:      lipgloss.Color("#45475a"),
		User:        lipgloss.Color("#a6e3a1"),
		Assistant:   lipgloss.Color("#89b4fa"),
		Accent:      lipgloss.Color("#cba6f7"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
		TextMute:    lipgloss.Color("#45475a"),
	},
	"nord": {
		Name:        "nord",
		Description: "Nord - cool arctic tones",
		Border:      lipgloss.Color("#4c566a"),
		User:        lipgloss.Color("#a3be8c"),
		Assistant:   lipgloss.Color("#88c0d0"),
		Accent:      lipgloss.Color("#b48ead"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
		TextMute:    lipgloss.Color("#4c566a"),
	},
	"light": {
		Name:        "light",
		Description: "Light - for bright terminals",
		Border:      lipgloss.Color("#c0c0c0"),
		User:        lipgloss.Color("#2e7d32"),
		Assistant:   lipgloss.Color("#3f51b5"),
		Accent:      lipgloss.Color("#8e24aa"),
		Error:       lipgloss.Color("#c62828"),
		Text:        lipgloss.Color("#1f1f1f"),
		TextDim:     lipgloss.Color("#616161"),
		TextMute:    lipgloss.Color("#9e9e9e"),
	},
}

var (
	themeMu         sync.RWMutex
	currentTUITheme = tuiThemes[DefaultTUITheme]
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme. It reports false and leaves the
// current theme in place when the name is unknown.
func SetTUITheme(name string) bool {
	theme, ok := tuiThemes[name]
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// TUIThemeNames returns the available theme names, sorted
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
