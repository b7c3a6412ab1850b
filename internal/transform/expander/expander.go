// Package expander implements the "expander" built-in transform: it inserts
// one space between each pair of adjacent bytes.
package expander

import (
	"strings"

	"github.com/relaylab/strpipe/internal/stage"
)

// Name is the stage identifier resolved from the command line.
const Name = "expander"

func init() {
	stage.Register(Name, New)
}

// New returns a fresh expander stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	if len(record) < 2 {
		return record, true
	}

	var b strings.Builder
	b.Grow(2*len(record) - 1)
	for i := 0; i < len(record); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(record[i])
	}
	return b.String(), true
}
