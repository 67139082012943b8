// Package clipboard copies text to the system clipboard using the platform's
// clipboard command.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard command is installed.
var ErrUnavailable = errors.New("no clipboard command found")

type command struct {
	name string
	args []string
}

// commands lists clipboard writers for goos in order of preference.
func commands(goos string) []command {
	switch goos {
	case "darwin":
		return []command{{name: "pbcopy"}}
	case "windows":
		return []command{{name: "cmd", args: []string{"/c", "clip"}}}
	default:
		return []command{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

var lookPath = exec.LookPath

func find() (command, bool) {
	for _, c := range commands(runtime.GOOS) {
		if _, err := lookPath(c.name); err == nil {
			return c, true
		}
	}
	return command{}, false
}

// Write copies text to the system clipboard.
func Write(text string) error {
	c, ok := find()
	if !ok {
		return ErrUnavailable
	}

	cmd := exec.Command(c.name, c.args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// Available checks if clipboard functionality is available.
func Available() bool {
	_, ok := find()
	return ok
}
