package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/delaneyj/deps/deps"
	"github.com/delaneyj/deps/pkg/metrics"
	"github.com/delaneyj/deps/pkg/report"
	"github.com/delaneyj/deps/pkg/scenario"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v3"
)

const (
	formatKey       = "format"
	metricsKey      = "metrics"
	expectDigestKey = "expect-digest"

	formatTable    = "table"
	formatMarkdown = "markdown"
)

var errDigestMismatch = errors.New("trace digest mismatch")

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "depstrace",
		Usage: "Run reactive scenarios and print what happened",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run scenario files, each on a fresh context",
				ArgsUsage: "<file>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  formatKey,
						Usage: "Output format, table or markdown",
						Value: formatTable,
					},
					&cli.BoolFlag{
						Name:  metricsKey,
						Usage: "Print the scheduler metrics after each scenario",
					},
					&cli.StringFlag{
						Name:  expectDigestKey,
						Usage: "Fail unless the trace digest of the single scenario matches",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(w, cmd)
				},
			},
			{
				Name:      "validate",
				Usage:     "Check scenario files without running them",
				ArgsUsage: "<file>...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return validate(cmd)
				},
			},
		},
	}
}

func run(w io.Writer, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("no scenario files given")
	}
	format := cmd.String(formatKey)
	if format != formatTable && format != formatMarkdown {
		return fmt.Errorf("unknown format %q", format)
	}
	expectDigest := cmd.String(expectDigestKey)
	if expectDigest != "" && len(files) != 1 {
		return fmt.Errorf("--%s needs exactly one scenario file", expectDigestKey)
	}

	var errs []error
	for _, path := range files {
		start := time.Now()
		sc, err := scenario.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		rctx := deps.NewReactiveContext()
		reg := prometheus.NewRegistry()
		if _, err := metrics.Register(rctx, metrics.WithRegistry(reg)); err != nil {
			return err
		}

		trace, runErr := scenario.Run(rctx, sc)
		log.Printf("Scenario %q ran %s steps in %v", sc.Name, humanize.Comma(int64(len(sc.Steps))), time.Since(start))

		switch format {
		case formatMarkdown:
			report.WriteTrace(w, trace)
		default:
			writeTable(w, trace)
		}

		if cmd.Bool(metricsKey) {
			if err := writeMetrics(w, reg); err != nil {
				return err
			}
		}

		if runErr != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, runErr))
		}
		if expectDigest != "" && expectDigest != trace.DigestHex() {
			errs = append(errs, fmt.Errorf("%w: want %s, got %s", errDigestMismatch, expectDigest, trace.DigestHex()))
		}
	}

	return errors.Join(errs...)
}

func validate(cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("no scenario files given")
	}
	var errs []error
	for _, path := range files {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Printf("%s: %q ok, %d vars, %d steps", path, sc.Name, len(sc.Vars), len(sc.Steps))
	}
	return errors.Join(errs...)
}

func writeTable(w io.Writer, trace *scenario.Trace) {
	fmt.Fprintf(w, "%s (digest %s)\n", trace.Scenario, trace.DigestHex())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"seq", "event", "target", "detail"})
	for _, e := range trace.Events {
		table.Append([]string{
			fmt.Sprint(e.Seq),
			string(e.Kind),
			e.Target,
			e.Detail,
		})
	}
	table.Render()

	s := trace.Stats
	fmt.Fprintf(w, "runs %s, reruns %s, invalidations %s, stops %s, flushes %s, after flush %s\n",
		humanize.Comma(int64(s.Runs)),
		humanize.Comma(int64(s.Reruns)),
		humanize.Comma(int64(s.Invalidations)),
		humanize.Comma(int64(s.Stops)),
		humanize.Comma(int64(s.Flushes)),
		humanize.Comma(int64(s.AfterFlushCalls)),
	)
	for _, f := range trace.Failures {
		fmt.Fprintf(w, "FAIL %s\n", f)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"metric", "type", "value"})
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var v float64
			switch f.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			table.Append([]string{
				f.GetName(),
				f.GetType().String(),
				humanize.Comma(int64(v)),
			})
		}
	}
	table.Render()
	return nil
}
