package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
	colorWhite  = lipgloss.Color("255") // Bright white - values
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// ui renders status lines. Styles are bound to the output writer so plain
// files and pipes receive no escape sequences.
type ui struct {
	w io.Writer

	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
	value   lipgloss.Style
	key     lipgloss.Style
}

func newUI(w io.Writer) *ui {
	r := lipgloss.NewRenderer(w)
	return &ui{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(colorCyan),
		success: r.NewStyle().Foreground(colorGreen),
		warning: r.NewStyle().Foreground(colorYellow),
		info:    r.NewStyle().Foreground(colorGray),
		dim:     r.NewStyle().Foreground(colorDim),
		value:   r.NewStyle().Foreground(colorWhite),
		key:     r.NewStyle().Foreground(colorGray),
	}
}

func (u *ui) printTitle(format string, args ...any) {
	fmt.Fprintln(u.w, u.title.Render(fmt.Sprintf(format, args...)))
}

func (u *ui) printSuccess(format string, args ...any) {
	fmt.Fprintln(u.w, u.success.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (u *ui) printWarning(format string, args ...any) {
	fmt.Fprintln(u.w, u.warning.Render(iconWarning)+" "+u.warning.Render(fmt.Sprintf(format, args...)))
}

func (u *ui) printInfo(format string, args ...any) {
	fmt.Fprintln(u.w, u.info.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func (u *ui) printDetail(format string, args ...any) {
	fmt.Fprintln(u.w, "  "+u.dim.Render(fmt.Sprintf(format, args...)))
}

func (u *ui) printFile(path string) {
	fmt.Fprintln(u.w, "  "+u.dim.Render(iconArrow)+" "+u.value.Render(path))
}

func (u *ui) printKeyValue(key, value string) {
	fmt.Fprintln(u.w, u.key.Render(fmt.Sprintf("%-12s", key))+" "+u.value.Render(value))
}
