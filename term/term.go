// Package term reports the terminal dimensions.
package term

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// Size returns the terminal width and height in cells, falling back to
// 80x24 when stdout is not a terminal.
func Size() (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultCols, defaultRows
	}
	return int(ws.Col), int(ws.Row)
}
