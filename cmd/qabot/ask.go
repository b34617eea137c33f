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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/qabot/answer"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/search"
	"github.com/urfave/cli/v2"
)

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single question and print the JSON response",
		ArgsUsage: "<question>",
		Action:    askAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Print search steps and ranked candidates to stderr",
			},
		},
	}
}

func askAction(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("a question is required")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	searcher, err := app.NewSearcher()
	if err != nil {
		return err
	}

	var s answer.Searcher = searcher
	if c.Bool("explain") {
		s = monitoredSearcher{searcher: searcher, monitor: &explainMonitor{w: os.Stderr}}
	}

	svc, err := answer.NewService(app.Embedder(), s,
		answer.WithFallbackAnswer(app.Config().FallbackAnswer))
	if err != nil {
		return err
	}

	resp, err := svc.Ask(c.Context, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// monitoredSearcher runs every search with a monitor attached.
type monitoredSearcher struct {
	searcher *search.Searcher
	monitor  search.SearchMonitor
}

func (m monitoredSearcher) Search(ctx context.Context, query core.Vector) (*core.SearchOutcome, error) {
	return m.searcher.SearchWithMonitor(ctx, query, m.monitor)
}

// explainMonitor prints search progress in a human-readable form.
type explainMonitor struct {
	w io.Writer
}

var _ search.SearchMonitor = (*explainMonitor)(nil)

func (m *explainMonitor) Start(query core.Vector) {
	fmt.Fprintf(m.w, "query embedding: %d dimensions\n", len(query))
}

func (m *explainMonitor) AfterCorpusFetch(records int) {
	fmt.Fprintf(m.w, "corpus: %d records\n", records)
}

func (m *explainMonitor) RecordSkipped(id string, err error) {
	fmt.Fprintf(m.w, "  skipped %s: %v\n", id, err)
}

func (m *explainMonitor) CandidateAccepted(candidate core.Candidate) {
	fmt.Fprintf(m.w, "  candidate %s (%.4f): %s\n", candidate.Id, candidate.Similarity, candidate.Question)
}

func (m *explainMonitor) Finish(outcome *core.SearchOutcome) {
	if !outcome.Found {
		fmt.Fprintln(m.w, "no candidate cleared the threshold")
		return
	}
	fmt.Fprintln(m.w, "ranked:")
	for i, cand := range outcome.Ranked {
		fmt.Fprintf(m.w, "  %d. %s (%.4f)\n", i+1, cand.Id, cand.Similarity)
	}
}
