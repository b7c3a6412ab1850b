// Package pipeline implements the pipeline host: resolving stage
// identifiers, initializing and chaining stages, driving standard input
// through the chain, and joining the chain down in order on shutdown.
package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/relaylab/strpipe/internal/stage"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ShutdownMessage is printed exactly once, after every stage has been
// finalized, on a clean run.
const ShutdownMessage = "Pipeline shutdown complete"

// MaxCapacity bounds the queue_capacity command-line argument.
const MaxCapacity = 1_000_000

// Pipeline is an ordered chain of initialized, attached stages.
type Pipeline struct {
	id     uuid.UUID
	stages []stage.Contract
	log    *logrus.Entry
}

// Build resolves each identifier in ids to a registered stage factory,
// initializes every stage with the given capacity, and attaches each
// stage's successor. On any failure it finalizes whatever stages were
// already initialized and returns a descriptive error; the caller is
// expected to map loader errors to exit code 1 and initialization errors
// to exit code 2.
func Build(ids []string, capacity int, log *logrus.Entry) (*Pipeline, error) {
	if len(ids) == 0 {
		return nil, xerrors.New("at least one stage must be specified")
	}
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, xerrors.Errorf("queue capacity must be in [1, %d]", MaxCapacity)
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	runID := uuid.New()
	log = log.WithField("run", runID.String())

	stages := make([]stage.Contract, 0, len(ids))
	for _, id := range ids {
		factory, ok := stage.Lookup(id)
		if !ok {
			return nil, &LoaderError{Identifier: id}
		}
		stages = append(stages, factory())
	}

	for i, st := range stages {
		if err := st.Init(capacity); err != nil {
			// Finalize every stage initialized so far, in any order.
			var finalizeErr error
			for _, prior := range stages[:i] {
				if ferr := prior.Finalize(); ferr != nil {
					finalizeErr = multierror.Append(finalizeErr, ferr)
				}
			}
			if finalizeErr != nil {
				log.WithError(finalizeErr).Warn("errors while rolling back partially initialized stages")
			}
			return nil, &InitError{Stage: st.Name(), Cause: err}
		}
	}

	for i := 0; i < len(stages)-1; i++ {
		stages[i].Attach(stages[i+1].Submit)
	}

	return &Pipeline{id: runID, stages: stages, log: log}, nil
}

// Run drives in line by line into the first stage, stripping trailing
// newlines, submitting the literal sentinel verbatim if seen, and
// synthesizing one on EOF. It then waits for and finalizes every stage in
// chain order, printing ShutdownMessage once all stages have terminated.
func (p *Pipeline) Run(out io.Writer, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawSentinel := false
	for scanner.Scan() {
		line := scanner.Text()
		if err := p.stages[0].Submit(line); err != nil {
			p.log.WithError(err).Error("failed to submit input line to the first stage")
			break
		}
		if line == stage.Sentinel {
			sawSentinel = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		p.log.WithError(err).Warn("error reading standard input")
	}
	if !sawSentinel {
		if err := p.stages[0].Submit(stage.Sentinel); err != nil {
			p.log.WithError(err).Error("failed to submit synthesized end-of-stream sentinel")
		}
	}

	var shutdownErr error
	for _, st := range p.stages {
		if err := st.WaitFinished(); err != nil {
			p.log.WithField("stage", st.Name()).WithError(err).Warn("error waiting for stage to finish")
			shutdownErr = multierror.Append(shutdownErr, err)
		}
		if err := st.Finalize(); err != nil {
			p.log.WithField("stage", st.Name()).WithError(err).Warn("error finalizing stage")
			shutdownErr = multierror.Append(shutdownErr, err)
		}
	}

	fmt.Fprintln(out, ShutdownMessage)

	if shutdownErr != nil {
		return shutdownErr
	}
	return nil
}

// LoaderError reports that a stage identifier could not be resolved.
type LoaderError struct {
	Identifier string
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("unknown stage %q", e.Identifier)
}

// InitError reports that a stage failed to initialize.
type InitError struct {
	Stage string
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize stage %q: %v", e.Stage, e.Cause)
}

func (e *InitError) Unwrap() error { return e.Cause }
