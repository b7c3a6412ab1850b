// Package flipper implements the "flipper" built-in transform: it reverses
// the byte sequence of the record.
package flipper

import "github.com/relaylab/strpipe/internal/stage"

// Name is the stage identifier resolved from the command line.
const Name = "flipper"

func init() {
	stage.Register(Name, New)
}

// New returns a fresh flipper stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	out := make([]byte, len(record))
	for i := 0; i < len(record); i++ {
		out[i] = record[len(record)-1-i]
	}
	return string(out), true
}
