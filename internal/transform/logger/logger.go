// Package logger implements the "logger" built-in transform: it prints
// every record it sees to standard output and forwards it unchanged.
package logger

import (
	"fmt"
	"os"

	"github.com/relaylab/strpipe/internal/stage"
)

// Name is the stage identifier resolved from the command line.
const Name = "logger"

func init() {
	stage.Register(Name, New)
}

// New returns a fresh logger stage.
func New() stage.Contract {
	return stage.New(Name, transform)
}

func transform(record string) (string, bool) {
	fmt.Fprintf(os.Stdout, "[logger] %s\n", record)
	return record, true
}
