package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
)

// Component styles, built once the colors are known
var (
	StyleTitle     lipgloss.Style
	StyleSubtitle  lipgloss.Style
	StyleTextMuted lipgloss.Style
	StyleFocused   lipgloss.Style
	StyleSuccess   lipgloss.Style
	StyleWarning   lipgloss.Style
	StyleError     lipgloss.Style
	StyleInfo      lipgloss.Style
	StyleFormLabel lipgloss.Style
	StyleFormHelp  lipgloss.Style
	StyleCard      lipgloss.Style
	StyleBanner    lipgloss.Style
)

func init() {
	initializeColors()
	initializeStyles()
}

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
		return
	case "dark":
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
}

func initializeStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleSubtitle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleTextMuted = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	StyleWarning = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	StyleInfo = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Bold(true)

	StyleFormLabel = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true).
		Padding(0, 1)

	StyleFormHelp = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Italic(true).
		Padding(0, 3)

	StyleCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2)

	StyleBanner = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
}

const bannerArt = `
__   ____  __ ____
\ \ / /  \/  /  ___|
 \ V /| .  . \ ` + "`" + `--.
  \ / | |\/| |` + "`" + `--. \
  | | | |  | /\__/ /
  \_/ \_|  |_\____/`

// Banner renders the shell splash screen
func Banner(version string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		StyleBanner.Render(bannerArt),
		"",
		StyleSubtitle.Render("The YAMS Management System "+version),
		StyleTextMuted.Render(" Type 'help' for a list of commands."),
		"",
	)
}

// CreateHelp renders a key binding hint line
func CreateHelp(text string) string {
	return StyleFormHelp.Render(text)
}

// CreateStatus renders a status line in the style of its type
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	default:
		return StyleInfo.Render(text)
	}
}
