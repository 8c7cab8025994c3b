package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// lineEditor is a minimal raw-mode line editor: left/right cursor movement,
// backspace, and up/down history recall. Home, End and Delete keys are not
// handled. It intentionally skips
// completion popups and bracketed-paste handling; a REPL for a stack-machine
// interpreter doesn't need much more than "don't lose the cursor position
// while correcting a typo".
type lineEditor struct {
	fd       int
	oldState *term.State
	history  []string
}

func newLineEditor() *lineEditor {
	return &lineEditor{fd: int(os.Stdin.Fd())}
}

func (e *lineEditor) enterRawMode() error {
	st, err := term.MakeRaw(e.fd)
	if err != nil {
		return err
	}
	e.oldState = st
	return nil
}

func (e *lineEditor) exitRawMode() {
	if e.oldState != nil {
		term.Restore(e.fd, e.oldState)
		e.oldState = nil
	}
}

// readLine prompts and reads one line of input with basic editing. It
// returns io.EOF-equivalent (ok=false) on Ctrl-D with an empty line.
func (e *lineEditor) readLine(prompt string) (line string, ok bool, err error) {
	fmt.Print(prompt)
	defer fmt.Print("\r\n")

	buf := []rune{}
	cursor := 0
	histPos := len(e.history)

	redraw := func() {
		fmt.Printf("\r\x1b[K%s%s", prompt, string(buf))
		if back := len(buf) - cursor; back > 0 {
			fmt.Printf("\x1b[%dD", back)
		}
	}

	one := make([]byte, 1)
	for {
		n, rerr := os.Stdin.Read(one)
		if rerr != nil || n == 0 {
			return "", false, rerr
		}
		switch c := one[0]; c {
		case '\r', '\n':
			return string(buf), true, nil
		case 3: // Ctrl-C
			return "", false, nil
		case 4: // Ctrl-D
			if len(buf) == 0 {
				return "", false, nil
			}
		case 127, 8: // backspace
			if cursor > 0 {
				buf = append(buf[:cursor-1], buf[cursor:]...)
				cursor--
				redraw()
			}
		case 27: // escape sequence
			var seq [2]byte
			os.Stdin.Read(seq[:1])
			if seq[0] != '[' {
				continue
			}
			os.Stdin.Read(seq[1:])
			switch seq[1] {
			case 'C': // right
				if cursor < len(buf) {
					cursor++
					redraw()
				}
			case 'D': // left
				if cursor > 0 {
					cursor--
					redraw()
				}
			case 'A': // up: older history
				if histPos > 0 {
					histPos--
					buf = []rune(e.history[histPos])
					cursor = len(buf)
					redraw()
				}
			case 'B': // down: newer history
				if histPos < len(e.history)-1 {
					histPos++
					buf = []rune(e.history[histPos])
				} else {
					histPos = len(e.history)
					buf = nil
				}
				cursor = len(buf)
				redraw()
			}
		default:
			if c < 0x20 {
				continue
			}
			buf = append(buf[:cursor], append([]rune{rune(c)}, buf[cursor:]...)...)
			cursor++
			redraw()
		}
	}
}

func (e *lineEditor) remember(line string) {
	if line != "" {
		e.history = append(e.history, line)
	}
}
