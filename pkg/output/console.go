package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)  // cyan/blue
	styleSection = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)  // bright white
	styleDesc    = lipgloss.NewStyle().Faint(true)                                  // dim
	styleWarnLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true) // yellow
	styleWarnTxt = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // yellow
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Faint(true) // teal dim
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	colorEnabled = true
)

// InitConsole configures color output based on noColor flag and TTY detection.
// Console messages go to stderr, so that is the stream checked.
func InitConsole(noColor bool) {
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// SectionHeader returns a colored header for a batch job and its optional description.
func SectionHeader(name, description string) string {
	var b strings.Builder
	arrow := r(styleArrow, "→")
	b.WriteString(fmt.Sprintf("%s %s\n", arrow, r(styleSection, name)))
	if strings.TrimSpace(description) != "" {
		b.WriteString(r(styleDesc, "  "+description))
		b.WriteByte('\n')
	}
	return b.String()
}

// Warnf returns a single-line colored warning string with a standard prefix.
func Warnf(format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	return r(styleWarnLbl, "Warning:") + " " + r(styleWarnTxt, msg)
}

// Notef returns a faint informational line.
func Notef(format string, a ...interface{}) string {
	return r(styleNote, fmt.Sprintf(format, a...))
}

// Successf returns a green status line.
func Successf(format string, a ...interface{}) string {
	return r(styleOK, fmt.Sprintf(format, a...))
}

// ShortError condenses a verbose SDK error into its reason. AWS SDK errors
// look like "operation error CloudFormation: ListExports, https response
// error StatusCode: 403, RequestID: ..., api error AccessDenied: <message>".
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	s := strings.TrimSpace(err.Error())
	if i := strings.LastIndex(s, "api error "); i >= 0 {
		s = s[i+len("api error "):]
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
