package report

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

// Style toggles ANSI highlighting.
type Style struct {
	Color bool
}

// AutoStyle enables color only when f is a terminal.
func AutoStyle(f *os.File) Style {
	fd := f.Fd()
	return Style{Color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (s Style) wrap(code, text string) string {
	if !s.Color {
		return text
	}
	return code + text + ansiReset
}

func (s Style) Bold(text string) string  { return s.wrap(ansiBold, text) }
func (s Style) Dim(text string) string   { return s.wrap(ansiDim, text) }
func (s Style) Cyan(text string) string  { return s.wrap(ansiCyan, text) }
func (s Style) Green(text string) string { return s.wrap(ansiGreen, text) }
func (s Style) Red(text string) string   { return s.wrap(ansiRed, text) }
