// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/qabot"
	"github.com/poiesic/qabot/ingestion"
	"github.com/poiesic/qabot/maintain"
	"github.com/urfave/cli/v2"
)

func ingestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of rows embedded concurrently",
			Value: 4,
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "Maximum embedding calls per second (0 for unlimited)",
		},
		&cli.BoolFlag{
			Name:  "normalize",
			Usage: "Store unit-length embeddings",
		},
		&cli.BoolFlag{
			Name:  "fail-fast",
			Usage: "Stop at the first row that cannot be stored",
		},
		&cli.BoolFlag{
			Name:  "replace",
			Usage: "Delete existing records with the same source tag first",
		},
	}
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Embed and store question/answer pairs from an .xlsx or .csv file",
		ArgsUsage: "<file|s3://bucket/key>",
		Action:    ingestAction,
		Flags: append(ingestFlags(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source tag written on every record",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "Worksheet name (default first sheet)",
			},
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "The first row holds data, not column names",
			},
			&cli.BoolFlag{
				Name:  "id-from-question",
				Usage: "Derive ids from question text so re-ingesting overwrites",
			},
		),
	}
}

func ingestAction(c *cli.Context) error {
	location := c.Args().First()
	if location == "" {
		return fmt.Errorf("a source file is required")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	readOpts := []ingestion.ReadOption{ingestion.WithHeader(!c.Bool("no-header"))}
	if c.IsSet("sheet") {
		readOpts = append(readOpts, ingestion.WithSheet(c.String("sheet")))
	}
	rows, err := app.LoadRows(c.Context, location, readOpts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Read %d rows from %s\n", len(rows), location)

	strategy := ingestion.IDRandom
	if c.Bool("id-from-question") {
		strategy = ingestion.IDFromQuestion
	}
	return runIngest(c, app, rows, c.String("source"),
		ingestion.WithIDStrategy(strategy))
}

func seedCommand() *cli.Command {
	names := make([]string, 0, len(fixtureSets))
	for name := range fixtureSets {
		names = append(names, name)
	}
	slices.Sort(names)

	return &cli.Command{
		Name:   "seed",
		Usage:  "Store a built-in fixture set",
		Action: seedAction,
		Flags: append(ingestFlags(),
			&cli.StringFlag{
				Name:  "set",
				Usage: "Fixture set (" + strings.Join(names, ", ") + ")",
				Value: "test",
			},
		),
	}
}

func seedAction(c *cli.Context) error {
	set, ok := fixtureSets[c.String("set")]
	if !ok {
		return fmt.Errorf("unknown fixture set %q", c.String("set"))
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	return runIngest(c, app, set.rows(), set.source)
}

func runIngest(c *cli.Context, app *qabot.App, rows []ingestion.Row, source string, opts ...ingestion.Option) error {
	ctx := c.Context

	if c.Bool("replace") {
		if source == "" {
			return fmt.Errorf("--replace needs a source tag")
		}
		purger, err := app.NewPurger()
		if err != nil {
			return err
		}
		deleted, err := purger.Purge(ctx, maintain.Selector{Source: source})
		if err != nil {
			return fmt.Errorf("failed to remove existing records: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Removed %d existing records tagged %q\n", deleted, source)
	}

	opts = append([]ingestion.Option{
		ingestion.WithPoolSize(c.Int("workers")),
		ingestion.WithRateLimit(c.Float64("rate")),
		ingestion.WithNormalize(c.Bool("normalize")),
		ingestion.WithFailFast(c.Bool("fail-fast")),
		ingestion.WithSource(source),
		ingestion.WithProgress(os.Stderr),
	}, opts...)

	pipeline, err := app.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(ctx, rows)
	if report != nil {
		fmt.Fprintf(os.Stderr, "Stored %d/%d rows in %s\n", report.Stored, report.Total, report.Duration)
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "  line %d (%q): %v\n", f.Line, f.Question, f.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	if report.Stored < report.Total {
		return cli.Exit(fmt.Sprintf("%d rows were not stored", report.Total-report.Stored), 1)
	}
	return nil
}
