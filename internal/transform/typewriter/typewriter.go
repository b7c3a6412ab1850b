// Package typewriter implements the "typewriter" built-in transform: it
// prints the record one byte at a time with a short delay between bytes,
// then forwards it unchanged.
package typewriter

import (
	"fmt"
	"os"
	"time"

	"github.com/relaylab/strpipe/internal/stage"
)

// Name is the stage identifier resolved from the command line.
const Name = "typewriter"

// delay is the pause between printed characters. The source sleeps for
// 100ms per byte; kept identical here since nothing downstream depends on
// the exact duration and a faithful rewrite shouldn't silently change
// observable timing.
const delay = 100 * time.Millisecond

func init() {
	stage.Register(Name, New)
}

// New returns a fresh typewriter stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	fmt.Fprint(os.Stdout, "[typewriter] ")
	for i := 0; i < len(record); i++ {
		os.Stdout.Write(record[i : i+1])
		// The sleep runs inside this call only; it holds no pipeline
		// lock, so it never blocks any other stage's progress.
		time.Sleep(delay)
	}
	fmt.Fprintln(os.Stdout)
	return record, true
}
