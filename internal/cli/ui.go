package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	gerrors "github.com/matzehuels/geco/pkg/errors"
)

// Terminal colors (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("214")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("244")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders table and section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders paths, ids and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// mark is the leading symbol of a status line.
type mark struct {
	symbol string
	style  lipgloss.Style
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markNote = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func printMarked(m mark, text string) {
	fmt.Println(m.style.Render(m.symbol) + " " + text)
}

func printSuccess(format string, args ...any) { printMarked(markOK, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { printMarked(markFail, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printMarked(markNote, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	printMarked(markWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints e.g. "  12 rows · 240 genes · cached".
func printStats(rows, glyphs int, cached bool) {
	state := StyleDim.Render("fresh")
	if cached {
		state = markOK.style.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d rows", rows)),
		StyleDim.Render(fmt.Sprintf("%d genes", glyphs)),
		state,
	}, sep))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// ReportError writes err for a terminal user. Backend failures get a hint
// pointing at the source settings.
func ReportError(w io.Writer, err error) {
	fmt.Fprintln(w, markFail.style.Render(markFail.symbol)+" "+gerrors.UserMessage(err))
	if gerrors.IsBackend(err) {
		fmt.Fprintln(w, "  "+StyleDim.Render("check backend.url in the config or pass --source"))
	}
}
