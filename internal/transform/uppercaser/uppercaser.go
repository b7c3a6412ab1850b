// Package uppercaser implements the "uppercaser" built-in transform: it
// maps ASCII a..z to A..Z and leaves every other byte unchanged.
package uppercaser

import "github.com/relaylab/strpipe/internal/stage"

// Name is the stage identifier resolved from the command line.
const Name = "uppercaser"

func init() {
	stage.Register(Name, New)
}

// New returns a fresh uppercaser stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	out := []byte(record)
	for i, b := range out {
		if b >= 'a' && b <= 'z' {
			out[i] = b - ('a' - 'A')
		}
	}
	return string(out), true
}
