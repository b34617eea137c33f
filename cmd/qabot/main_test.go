package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/qabot/config"
	"github.com/poiesic/qabot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"serve", "ask", "ingest", "seed", "purge", "reembed"} {
		cmd := findCommand(t, app, name)
		assert.NotNil(t, cmd.Action, name)
		assert.NotEmpty(t, cmd.Usage, name)
	}
}

func TestReembedCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "reembed")

	t.Run("batch-size has default value of 50", func(t *testing.T) {
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 50, batchFlag.Value)
	})

	t.Run("invalid batch size fails before opening the store", func(t *testing.T) {
		err := newApp().Run([]string{"qabot", "reembed", "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ask needs a question", []string{"qabot", "ask"}, "question is required"},
		{"ask rejects blank question", []string{"qabot", "ask", "  "}, "question is required"},
		{"ingest needs a file", []string{"qabot", "ingest"}, "source file is required"},
		{"purge needs a selector", []string{"qabot", "purge"}, "--source or --id-prefix"},
		{"seed needs a known set", []string{"qabot", "seed", "--set", "nope"}, "unknown fixture set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	run := func(args ...string) error {
		app := &cli.App{
			Name:   "test",
			Flags:  newApp().Flags,
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
		return app.Run(append([]string{"test"}, args...))
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, run("--log-level", level))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, run("--log-level", level))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := run("--log-level", "invalid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		require.NoError(t, run("-l", "debug"))
	})

	t.Run("json format", func(t *testing.T) {
		require.NoError(t, run("--log-format", "json"))
	})

	t.Run("invalid format returns error", func(t *testing.T) {
		err := run("--log-format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})

	t.Run("env file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("QABOT_CMD_TEST_VALUE=loaded\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("QABOT_CMD_TEST_VALUE") })

		require.NoError(t, run("--env-file", path))
		assert.Equal(t, "loaded", os.Getenv("QABOT_CMD_TEST_VALUE"))
	})
}

func TestLoadConfig(t *testing.T) {
	load := func(t *testing.T, args ...string) (*config.Config, error) {
		t.Helper()
		var cfg *config.Config
		var loadErr error
		app := &cli.App{
			Name:  "test",
			Flags: newApp().Flags,
			Action: func(c *cli.Context) error {
				cfg, loadErr = loadConfig(c)
				return nil
			},
		}
		require.NoError(t, app.Run(append([]string{"test"}, args...)))
		return cfg, loadErr
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := load(t)
		require.NoError(t, err)
		assert.Equal(t, config.StoreDynamoDB, cfg.Store.Type)
		assert.Equal(t, 0.70, cfg.Search.Threshold)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store:\n  table: from-file\nsearch:\n  top_k: 9\n"), 0o644))
		t.Setenv("DYNAMODB_TABLE", "from-env")

		cfg, err := load(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Store.Table)
		assert.Equal(t, 9, cfg.Search.TopK)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("TOP_K", "5")

		cfg, err := load(t, "--top-k", "2", "--threshold", "0.8")
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Search.TopK)
		assert.Equal(t, 0.8, cfg.Search.Threshold)
	})

	t.Run("db flag selects badger", func(t *testing.T) {
		cfg, err := load(t, "--db", "/tmp/qa_db")
		require.NoError(t, err)
		assert.Equal(t, config.StoreBadger, cfg.Store.Type)
		assert.Equal(t, "/tmp/qa_db", cfg.Store.BadgerPath)
	})

	t.Run("invalid result", func(t *testing.T) {
		_, err := load(t, "--threshold", "2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestFixtureSets(t *testing.T) {
	for name, set := range fixtureSets {
		t.Run(name, func(t *testing.T) {
			rows := set.rows()
			require.Len(t, rows, len(set.pairs))
			seen := make(map[string]bool)
			for i, row := range rows {
				assert.True(t, strings.HasPrefix(row.Id, set.idPrefix))
				assert.False(t, seen[row.Id], "duplicate id %s", row.Id)
				seen[row.Id] = true
				assert.Equal(t, i+1, row.Line)
				assert.NotEmpty(t, row.Question)
				assert.NotEmpty(t, row.Answer)
			}
		})
	}

	assert.Equal(t, "test-1", fixtureSets["test"].rows()[0].Id)
}

func TestExplainMonitor(t *testing.T) {
	var buf bytes.Buffer
	m := &explainMonitor{w: &buf}

	m.Start(core.Vector{1, 0, 0})
	m.AfterCorpusFetch(2)
	m.RecordSkipped("bad", errors.New("record parse error"))
	cand := core.Candidate{Id: "a", Question: "A?", Similarity: 0.9876}
	m.CandidateAccepted(cand)
	m.Finish(&core.SearchOutcome{Found: true, Best: &cand, Ranked: []core.Candidate{cand}})

	out := buf.String()
	assert.Contains(t, out, "3 dimensions")
	assert.Contains(t, out, "corpus: 2 records")
	assert.Contains(t, out, "skipped bad: record parse error")
	assert.Contains(t, out, "candidate a (0.9876): A?")
	assert.Contains(t, out, "1. a (0.9876)")

	buf.Reset()
	m.Finish(&core.SearchOutcome{Ranked: []core.Candidate{}})
	assert.Contains(t, buf.String(), "no candidate cleared the threshold")
}

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	code := m.Run()
	os.Exit(code)
}
