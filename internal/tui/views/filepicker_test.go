package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func pickerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0755))
	writeFile(t, filepath.Join(dir, "b.txt"), "bee")
	writeFile(t, filepath.Join(dir, "A.md"), "# a")
	writeFile(t, filepath.Join(dir, "image.png"), "png")
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "secret")
	return dir
}

func names(m FilePickerModel) []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.name
	}
	return out
}

func TestFilePicker_ListsDirsThenTextFiles(t *testing.T) {
	m := NewFilePickerModel(pickerDir(t), TextExtensions)

	require.NoError(t, m.Err())
	assert.Equal(t, []string{"..", "notes", "A.md", "b.txt"}, names(m))
}

func TestFilePicker_NoExtensionsShowsAll(t *testing.T) {
	m := NewFilePickerModel(pickerDir(t), nil)
	assert.Contains(t, names(m), "image.png")
	assert.NotContains(t, names(m), ".hidden.txt")
}

func TestFilePicker_Navigation(t *testing.T) {
	dir := pickerDir(t)
	m := NewFilePickerModel(dir, TextExtensions)

	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	// into notes/
	m, _ = m.Update(down)
	m, cmd := m.Update(enter)
	assert.Nil(t, cmd)
	assert.Equal(t, filepath.Join(dir, "notes"), m.Dir())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, dir, m.Dir())

	// A.md
	m, _ = m.Update(down)
	m, _ = m.Update(down)
	_, cmd = m.Update(enter)
	require.NotNil(t, cmd)
	assert.Equal(t, FileSelectedMsg{Path: filepath.Join(dir, "A.md")}, cmd())
}

func TestFilePicker_Cancel(t *testing.T) {
	m := NewFilePickerModel(t.TempDir(), TextExtensions)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, FilePickerCancelledMsg{}, cmd())
}

func TestFilePicker_MissingDir(t *testing.T) {
	m := NewFilePickerModel(filepath.Join(t.TempDir(), "gone"), TextExtensions)
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "Error:")
}

func TestLoadTextFile(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "ok.txt")
	writeFile(t, ok, "hello\nworld")
	msg := LoadTextFile(ok)().(TextFileLoadedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, "hello\nworld", msg.Text)

	binary := filepath.Join(dir, "bin.txt")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0644))
	msg = LoadTextFile(binary)().(TextFileLoadedMsg)
	assert.ErrorContains(t, msg.Err, "not a text file")

	big := filepath.Join(dir, "big.txt")
	writeFile(t, big, strings.Repeat("a", MaxTextFileSize+1))
	msg = LoadTextFile(big)().(TextFileLoadedMsg)
	assert.ErrorContains(t, msg.Err, "too large")
}

func TestInput_LoadText(t *testing.T) {
	m := NewInputModel(&stubAnalyzer{})
	m.SetErr("old error")

	long := strings.Repeat("line\n", 200)
	m.LoadText(long)

	assert.Equal(t, long, m.Value())
	assert.Empty(t, m.Err())
}
