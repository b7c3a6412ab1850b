// Package rotator implements the "rotator" built-in transform: it rotates
// the record right by one byte, moving the last byte to the front.
package rotator

import "github.com/relaylab/strpipe/internal/stage"

// Name is the stage identifier resolved from the command line.
const Name = "rotator"

func init() {
	stage.Register(Name, New)
}

// New returns a fresh rotator stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	if len(record) < 2 {
		return record, true
	}
	return record[len(record)-1:] + record[:len(record)-1], true
}
