// Command analyzer hosts a streaming string-transformation pipeline: it
// loads the requested stages in order, feeds standard input through them
// one line at a time, and shuts the chain down cleanly once the sentinel
// record "<END>" has traveled through every stage.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/relaylab/strpipe/internal/pipeline"
	"github.com/relaylab/strpipe/internal/stage"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	_ "github.com/relaylab/strpipe/internal/transform/expander"
	_ "github.com/relaylab/strpipe/internal/transform/flipper"
	_ "github.com/relaylab/strpipe/internal/transform/logger"
	_ "github.com/relaylab/strpipe/internal/transform/rotator"
	_ "github.com/relaylab/strpipe/internal/transform/typewriter"
	_ "github.com/relaylab/strpipe/internal/transform/uppercaser"
)

var (
	appName = "analyzer"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	rootLogger := logrus.StandardLogger()
	rootLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	rootLogger.SetOutput(os.Stderr)
	logger = rootLogger.WithField("app", appName)

	app := makeApp()
	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Error("analyzer exited with an error")
		cli.HandleExitCoder(err)
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "run a streaming string-transformation pipeline over standard input"
	app.ArgsUsage = "queue_capacity stage1 [stage2 ... stageN]"
	app.UsageText = usageText()
	app.Action = run
	return app
}

func usageText() string {
	text := fmt.Sprintf("%s <queue_capacity> <stage1> <stage2> ... <stageN>\n\n", appName)
	text += "Arguments:\n"
	text += "  queue_capacity  Maximum number of records buffered between adjacent stages (1-1000000)\n"
	text += "  stage1..N       Identifiers of the stages to chain, in order\n\n"
	text += "Available stages:\n"
	for _, id := range stage.Identifiers() {
		text += fmt.Sprintf("  %s\n", id)
	}
	text += "\nExample:\n"
	text += fmt.Sprintf("  %s 20 uppercaser rotator logger\n", appName)
	text += fmt.Sprintf("  echo '<END>' | %s 20 uppercaser rotator logger\n", appName)
	return text
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) < 2 {
		_ = cli.ShowAppHelp(c)
		return cli.NewExitError("invalid arguments: expected a queue capacity and at least one stage", 1)
	}

	capacity, err := strconv.Atoi(args.Get(0))
	if err != nil || capacity <= 0 || capacity > pipeline.MaxCapacity {
		_ = cli.ShowAppHelp(c)
		return cli.NewExitError(fmt.Sprintf("invalid queue capacity %q", args.Get(0)), 1)
	}

	ids := []string(args)[1:]

	p, err := pipeline.Build(ids, capacity, logger)
	if err != nil {
		if _, ok := err.(*pipeline.LoaderError); ok {
			_ = cli.ShowAppHelp(c)
			return cli.NewExitError(err.Error(), 1)
		}
		return cli.NewExitError(err.Error(), 2)
	}

	if err := p.Run(os.Stdout, os.Stdin); err != nil {
		logger.WithError(err).Warn("one or more stages reported an error during shutdown")
	}
	return nil
}
