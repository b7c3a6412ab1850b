package logger_test

import (
	"io"
	"os"
	"testing"

	"github.com/relaylab/strpipe/internal/stage"
	"github.com/relaylab/strpipe/internal/transform/logger"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return string(out)
}

func TestLoggerPrintsAndForwardsUnchanged(t *testing.T) {
	st := logger.New()
	if err := st.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { _ = st.Finalize() }()

	forwarded := make(chan string, 2)
	st.Attach(func(record string) error {
		forwarded <- record
		return nil
	})

	printed := captureStdout(t, func() {
		if err := st.Submit("hello"); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if got := <-forwarded; got != "hello" {
			t.Errorf("forwarded record = %q; want %q", got, "hello")
		}

		if err := st.Submit(stage.Sentinel); err != nil {
			t.Fatalf("Submit sentinel: %v", err)
		}
		if got := <-forwarded; got != stage.Sentinel {
			t.Errorf("forwarded sentinel = %q; want %q", got, stage.Sentinel)
		}
		if err := st.WaitFinished(); err != nil {
			t.Fatalf("WaitFinished: %v", err)
		}
	})

	want := "[logger] hello\n[logger] <END>\n"
	if printed != want {
		t.Errorf("stdout = %q; want %q", printed, want)
	}
}
