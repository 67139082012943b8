// Package output provides CLI output formatting utilities
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/f3rmion/textlens/internal/series"
	"github.com/fatih/color"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors based on environment (default)
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// PrinterOptions configures the Printer
type PrinterOptions struct {
	ColorMode ColorMode
	Quiet     bool
	Out       io.Writer // defaults to os.Stdout
	Err       io.Writer // defaults to os.Stderr
}

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors based on mode and environment
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// NewPrinter creates a printer writing to the given streams.
func NewPrinter(opts PrinterOptions) *Printer {
	p := &Printer{
		out:       opts.Out,
		err:       opts.Err,
		useColors: ResolveColors(opts.ColorMode),
		quiet:     opts.Quiet,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.err == nil {
		p.err = os.Stderr
	}
	return p
}

// Out returns the writer for regular output.
func (p *Printer) Out() io.Writer {
	return p.out
}

// IsQuiet returns whether the printer is in quiet mode
func (p *Printer) IsQuiet() bool {
	return p.quiet
}

func (p *Printer) colored(attr color.Attribute, w io.Writer, s string) {
	if p.useColors {
		c := color.New(attr)
		c.EnableColor()
		c.Fprint(w, s)
		return
	}
	fmt.Fprint(w, s)
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.colored(color.FgCyan, p.out, fmt.Sprintf(format+"\n", args...))
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	if p.useColors {
		p.colored(color.FgGreen, p.out, fmt.Sprintf("✓ "+format+"\n", args...))
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	if p.useColors {
		p.colored(color.FgYellow, p.err, fmt.Sprintf("⚠ "+format+"\n", args...))
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		p.colored(color.FgRed, p.err, fmt.Sprintf("✗ "+format+"\n", args...))
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Print prints a plain message
func (p *Printer) Print(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	if p.useColors {
		c := color.New(color.FgWhite, color.Bold)
		c.EnableColor()
		c.Fprintf(p.out, "\n%s\n", title)
		p.colored(color.FgWhite, p.out, repeatChar('─', len([]rune(title)))+"\n")
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, repeatChar('-', len([]rune(title))))
}

// Score renders a hallucination score colored by its reliability band.
func (p *Printer) Score(score float64) string {
	text := series.FormatScore(score)
	if !p.useColors {
		return text
	}

	var c *color.Color
	switch series.ReliabilityBand(score) {
	case "high":
		c = color.New(color.FgGreen)
	case "moderate":
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	c.EnableColor()
	return c.Sprint(text)
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string {
	if p.useColors {
		c := color.New(color.Bold)
		c.EnableColor()
		return c.Sprint(text)
	}
	return text
}

// Dim returns dimmed text
func (p *Printer) Dim(text string) string {
	if p.useColors {
		c := color.New(color.Faint)
		c.EnableColor()
		return c.Sprint(text)
	}
	return text
}

func repeatChar(char rune, count int) string {
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
