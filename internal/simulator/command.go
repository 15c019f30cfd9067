package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
)

// App builds the traffic simulator CLI; progress lines go to out.
func App(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "simulator",
		Usage:     "Send sequential GET requests to the hello endpoint",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "target URL",
				EnvVars: []string{"SIMULATOR_URL"},
				Value:   DefaultURL,
			},
			&cli.IntFlag{
				Name:    "requests",
				Aliases: []string{"n"},
				Usage:   "number of requests to send",
				EnvVars: []string{"SIMULATOR_REQUESTS"},
				Value:   DefaultRequests,
			},
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "pause between requests",
				EnvVars: []string{"SIMULATOR_INTERVAL"},
				Value:   DefaultInterval,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-request timeout",
				EnvVars: []string{"SIMULATOR_TIMEOUT"},
				Value:   DefaultTimeout,
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	sim, err := New(Config{
		URL:      c.String("url"),
		Requests: c.Int("requests"),
		Interval: c.Duration("interval"),
		Timeout:  c.Duration("timeout"),
	}, c.App.Writer)
	if err != nil {
		return err
	}

	sum, err := sim.Run(c.Context)
	fmt.Fprintln(c.App.Writer, sum)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
