package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MaxTextFileSize is the largest file the picker loads into the input.
const MaxTextFileSize = 1 << 20

// TextExtensions are the file types offered by the picker.
var TextExtensions = []string{".txt", ".md", ".markdown", ".text"}

// FileSelectedMsg is sent when a file is chosen.
type FileSelectedMsg struct {
	Path string
}

// FilePickerCancelledMsg is sent when the picker is closed without a choice.
type FilePickerCancelledMsg struct{}

// TextFileLoadedMsg carries the contents of a chosen file.
type TextFileLoadedMsg struct {
	Path string
	Text string
	Err  error
}

// LoadTextFile reads path as UTF-8 text.
func LoadTextFile(path string) tea.Cmd {
	return func() tea.Msg {
		text, err := readTextFile(path)
		return TextFileLoadedMsg{Path: path, Text: text, Err: err}
	}
}

func readTextFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxTextFileSize {
		return "", fmt.Errorf("%s is too large (%d KiB, limit %d KiB)",
			filepath.Base(path), info.Size()>>10, MaxTextFileSize>>10)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not a text file", filepath.Base(path))
	}
	return string(data), nil
}

// File picker styles
var (
	fpPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	fpSelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436"))

	fpRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3d5a80"))
)

type fileEntry struct {
	name  string
	isDir bool
	path  string
}

// FilePickerModel browses directories for a text file to analyze.
type FilePickerModel struct {
	dir        string
	entries    []fileEntry
	selected   int
	offset     int
	extensions []string

	err error

	width  int
	height int
}

// NewFilePickerModel opens a picker in dir showing files with the given
// extensions. No extensions means every file is shown.
func NewFilePickerModel(dir string, extensions []string) FilePickerModel {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	m := FilePickerModel{
		dir:        dir,
		extensions: extensions,
	}
	m.load()
	return m
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory being shown.
func (m FilePickerModel) Dir() string {
	return m.dir
}

// Err returns the error from reading the current directory, if any.
func (m FilePickerModel) Err() error {
	return m.err
}

func (m *FilePickerModel) load() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.dir); parent != m.dir {
		m.entries = append(m.entries, fileEntry{name: "..", isDir: true, path: parent})
	}

	var dirs, files []fileEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fe := fileEntry{name: e.Name(), isDir: e.IsDir(), path: filepath.Join(m.dir, e.Name())}
		switch {
		case e.IsDir():
			dirs = append(dirs, fe)
		case m.matches(e.Name()):
			files = append(files, fe)
		}
	}

	byName := func(list []fileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].name) < strings.ToLower(list[j].name)
		})
	}
	byName(dirs)
	byName(files)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m FilePickerModel) matches(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (m *FilePickerModel) chdir(dir string) {
	m.dir = dir
	m.load()
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc", "q":
		return m, func() tea.Msg { return FilePickerCancelledMsg{} }
	case "j", "down":
		if m.selected < len(m.entries)-1 {
			m.selected++
			m.scroll()
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.scroll()
		}
	case "enter", "l", "right":
		if m.selected >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.selected]
		if entry.isDir {
			m.chdir(entry.path)
			return m, nil
		}
		return m, func() tea.Msg { return FileSelectedMsg{Path: entry.path} }
	case "backspace", "h", "left":
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.chdir(parent)
		}
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.chdir(home)
		}
	case "g":
		m.selected = 0
		m.offset = 0
	case "G":
		m.selected = max(len(m.entries)-1, 0)
		m.scroll()
	}

	return m, nil
}

func (m FilePickerModel) visibleRows() int {
	// title, path, two rules and help
	return max(m.height-6, 5)
}

func (m *FilePickerModel) scroll() {
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Open Text File"))
	b.WriteString("\n")
	b.WriteString(fpPathStyle.Render(m.dir))
	b.WriteString("\n")

	rule := fpRuleStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 10)))
	b.WriteString(rule)
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if len(m.entries) == 0 {
		b.WriteString(helpStyle.Render("  (no text files here)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleRows(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		label := "  " + entry.name
		style := fpFileStyle
		if entry.isDir {
			label = "▸ " + entry.name + "/"
			style = fpDirStyle
		}

		prefix := "  "
		if i == m.selected {
			prefix = "> "
			style = fpSelectedStyle
		}
		b.WriteString(prefix + style.Render(label))
		b.WriteString("\n")
	}

	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open • backspace: parent • ~: home • esc: cancel"))

	style := focusedBoxStyle
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}
