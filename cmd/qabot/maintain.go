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

	"github.com/poiesic/qabot/maintain"
	"github.com/urfave/cli/v2"
)

func purgeCommand() *cli.Command {
	return &cli.Command{
		Name:   "purge",
		Usage:  "Delete records by source tag or id prefix",
		Action: purgeAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Delete records with this source tag",
			},
			&cli.StringFlag{
				Name:  "id-prefix",
				Usage: "Delete records whose id starts with this prefix, e.g. test-",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of concurrent deletes",
				Value: 8,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Count matching records without deleting them",
			},
		},
	}
}

func purgeAction(c *cli.Context) error {
	sel := maintain.Selector{
		Source:   c.String("source"),
		IDPrefix: c.String("id-prefix"),
	}
	if sel.Empty() {
		return fmt.Errorf("--source or --id-prefix is required")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	purger, err := app.NewPurger(
		maintain.WithConcurrency(c.Int("concurrency")),
		maintain.WithDryRun(c.Bool("dry-run")),
	)
	if err != nil {
		return err
	}

	n, err := purger.Purge(c.Context, sel)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	verb := "Deleted"
	if c.Bool("dry-run") {
		verb = "Would delete"
	}
	fmt.Fprintf(os.Stderr, "%s %d records\n", verb, n)
	return nil
}

func reembedCommand() *cli.Command {
	return &cli.Command{
		Name:   "reembed",
		Usage:  "Regenerate the embedding of every record",
		Action: reembedAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of records to process in each batch",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N records",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "normalize",
				Usage: "Store unit-length embeddings",
			},
		},
	}
}

func reembedAction(c *cli.Context) error {
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	reembedder, err := app.NewReembedder(
		maintain.WithBatchSize(c.Int("batch-size")),
		maintain.WithReportInterval(c.Int("report-interval")),
		maintain.WithNormalize(c.Bool("normalize")),
		maintain.WithProgress(os.Stderr),
	)
	if err != nil {
		return err
	}

	cfg := app.Config()
	fmt.Fprintf(os.Stderr, "Store: %s\n", cfg.Store.Type)
	fmt.Fprintf(os.Stderr, "Embedder: %s\n", cfg.Embedder.Provider)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", app.Config().AIConfig().ModelID)
	fmt.Fprintln(os.Stderr)

	report, err := reembedder.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Updated %d/%d records in %s\n", report.Updated, report.Total, report.Duration)
	for _, id := range report.Skipped {
		fmt.Fprintf(os.Stderr, "  skipped %s: no question text\n", id)
	}
	for _, id := range report.Failed {
		fmt.Fprintf(os.Stderr, "  failed %s\n", id)
	}
	return nil
}
