package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"frscan/internal/config"
	"frscan/internal/enrich"
	"frscan/internal/llm"
	"frscan/internal/logger"
	"frscan/internal/pipeline"
	"frscan/internal/scan"
)

var rootCmd = &cobra.Command{
	Use:   "frscan",
	Short: "Scan source files for malicious patterns and judge them with an LLM",
	Long: `frscan loads a source file, directory or zip archive, applies per-language
static rules, then asks a language model to summarize every file and judge
whether it is dangerous.`,
	SilenceUsage: true,
}

func init() {
	d := config.Default
	f := rootCmd.PersistentFlags()
	f.StringP("config", "c", "", "Path to a config file (YAML, JSON or TOML).")
	f.String("provider", d.LLM.Provider, "LLM provider: 'openai', 'gemini' or 'fake' (offline).")
	f.String("model", d.LLM.Model, "Model used for summaries and judgments.")
	f.String("base-url", d.LLM.BaseURL, "Base URL of an OpenAI-compatible API.")
	f.Int("concurrency", d.LLM.MaxConcurrent, "Max concurrent LLM calls per stage.")
	f.Float32("temperature", d.LLM.Temperature, "Sampling temperature.")
	f.Int("cache-size", d.LLM.CacheSize, "Number of LLM responses to memoize (0 disables).")
	f.String("log-level", d.Log.Level, "Log level: TRACE, DEBUG, INFO, WARN or ERROR.")
	f.Bool("log-json", d.Log.JSON, "Emit JSON logs.")
}

// app is the wiring shared by subcommands.
type app struct {
	cfg      *config.Config
	log      hclog.Logger
	client   llm.LLMClient
	pipeline *pipeline.Pipeline
}

// newApp loads configuration and builds the pipeline. withLLM=false skips the
// remote client so only static analysis is available. serving extracts
// archives under the configured upload dir instead of the OS temp dir.
func newApp(cmd *cobra.Command, withLLM, serving bool) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log := logger.New("frscan", logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: cmd.ErrOrStderr()})

	var workDir string
	if serving {
		workDir = cfg.Server.UploadDir
	}
	loader, err := scan.NewLoader(scan.Options{
		WorkDir:     workDir,
		Ignore:      cfg.Scan.Ignore,
		MaxFileSize: cfg.Scan.MaxFileSize,
		Log:         log.Named("scan"),
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	deps := pipeline.Deps{Loader: loader, Log: log.Named("pipeline")}
	if withLLM {
		a.client, err = llm.New(cmd.Context(), cfg.LLM, log.Named("llm"))
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
		deps.Engine = enrich.New(a.client, enrich.Config{
			MaxConcurrent: cfg.LLM.MaxConcurrent,
			Model:         cfg.LLM.Model,
			Temperature:   cfg.LLM.Temperature,
		}, log.Named("enrich"))
	}
	a.pipeline = pipeline.New(deps)
	return a, nil
}

func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
}
