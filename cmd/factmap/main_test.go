package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/factmap/core"
	"github.com/poiesic/factmap/dataset"
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

func findFlag(cmd *cli.Command, name string) cli.Flag {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return f
			}
		}
	}
	return nil
}

func TestCommands(t *testing.T) {
	app := newApp()

	t.Run("every mode has a command", func(t *testing.T) {
		for _, name := range []string{"run", "fix", "fix-encoding", "embed"} {
			assert.NotNil(t, findCommand(t, app, name))
		}
	})

	t.Run("only embed has force", func(t *testing.T) {
		assert.NotNil(t, findFlag(findCommand(t, app, "embed"), "force"))
		assert.Nil(t, findFlag(findCommand(t, app, "run"), "force"))
	})

	t.Run("embedding flags have defaults", func(t *testing.T) {
		run := findCommand(t, app, "run")

		batch, ok := findFlag(run, "batch-size").(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, 32, batch.Value)

		delay, ok := findFlag(run, "retry-delay").(*cli.DurationFlag)
		require.True(t, ok)
		assert.Equal(t, time.Second, delay.Value)

		host, ok := findFlag(run, "embedding-host").(*cli.StringFlag)
		require.True(t, ok)
		assert.Empty(t, host.Value, "host falls back to the config file")
	})

	t.Run("output is repeatable", func(t *testing.T) {
		_, ok := findFlag(findCommand(t, app, "fix"), "output").(*cli.StringSliceFlag)
		assert.True(t, ok)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "factmap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input: from-file.csv\nworkers: 4\n"), 0o644))

	run := func(args ...string) error {
		app := newApp()
		cmd := findCommand(t, app, "run")
		cmd.Action = func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			assert.Equal(t, "from-file.csv", cfg.Input)
			assert.Equal(t, 4, cfg.Workers)
			assert.Equal(t, []string{"a.csv", "b.csv"}, cfg.Outputs)
			assert.Equal(t, 5, cfg.Clustering.K)
			assert.Equal(t, uint64(7), cfg.Projection.Seed)
			assert.Equal(t, uint64(7), cfg.Clustering.Seed)
			assert.Equal(t, 32, cfg.Embedding.BatchSize)
			return nil
		}
		return app.Run(args)
	}

	err := run("factmap", "--config", cfgPath, "run",
		"-o", "a.csv", "-o", "b.csv", "--clusters", "5", "--seed", "7")
	require.NoError(t, err)

	t.Run("invalid override fails validation", func(t *testing.T) {
		app := newApp()
		cmd := findCommand(t, app, "run")
		cmd.Action = func(c *cli.Context) error {
			_, err := loadConfig(c)
			return err
		}
		err := app.Run([]string{"factmap", "run", "--projector", "umap"})
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		app := newApp()
		cmd := findCommand(t, app, "fix")
		cmd.Action = func(c *cli.Context) error {
			_, err := loadConfig(c)
			return err
		}
		err := app.Run([]string{"factmap", "-c", filepath.Join(dir, "missing.yaml"), "fix"})
		assert.Error(t, err)
	})
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")

	table, err := core.NewTable(
		[]string{core.ColDate, core.ColTitle, core.ColSummary, core.ColArticleText},
		[][]string{{"1 July 2021", "It\u20ac\u2122s fixed", "s", "a"}},
	)
	require.NoError(t, err)
	require.NoError(t, dataset.WriteAll(context.Background(), table, input))

	err = newApp().Run([]string{"factmap", "fix-encoding", "--input", input, "--output", output})
	require.NoError(t, err)

	got, err := dataset.Load(output)
	require.NoError(t, err)
	title, _ := got.Get(0, core.ColTitle)
	assert.Equal(t, "It's fixed", title)
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(nil, set, nil)
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, setupLogger(newContext(level)))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := setupLogger(newContext("invalid"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		app.Commands = nil
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}
		require.NoError(t, app.Run([]string{"factmap", "-l", "debug"}))
	})
}
