package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/scorecard/internal/aggregate"
	"github.com/pavelanni/scorecard/internal/handler"
	appI18n "github.com/pavelanni/scorecard/internal/i18n"
	"github.com/pavelanni/scorecard/internal/llm"
	"github.com/pavelanni/scorecard/internal/llm/prompts"
	"github.com/pavelanni/scorecard/internal/model"
	"github.com/pavelanni/scorecard/internal/report"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scorecard",
		Short: "Exam attempt analysis and AI-generated performance reports",
	}

	root.AddCommand(analyzeCmd(), reportCmd(), serveCmd())

	return root
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate an attempt export into performance JSON",
		RunE:  runAnalyze,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "-", "Attempt export JSON path (- for stdin)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.Bool("context", false, "Output the rendered analysis context instead of JSON")
	addConfigFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a PDF performance report for an attempt export",
		RunE:  runReport,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "-", "Attempt export JSON path (- for stdin)")
	f.StringP("output", "o", "performance_report.pdf", "Output PDF path")
	f.StringP("lang", "l", "en", "Report language (en, hi)")
	addLLMFlags(cmd)
	addConfigFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis API",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "Report language (en, hi)")
	addLLMFlags(cmd)
	addConfigFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func addLLMFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for the generation service")
	f.String("llm-model", "llama3.2", "Generation model name")
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("strong-min", 80, "Minimum accuracy percent for a strong concept")
	f.Float64("weak-max", 60, "Maximum accuracy percent for a weak concept")
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SCORECARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("scorecard")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scorecard")
	v.AddConfigPath("/etc/scorecard")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// buildConfig assembles the aggregation config: reference defaults overlaid
// with the config file's subject, section and chapter tables and the
// threshold flags.
func buildConfig(v *viper.Viper) aggregate.Config {
	cfg := aggregate.DefaultConfig()

	if m := v.GetStringMapString("subject-ids"); len(m) > 0 {
		cfg.SubjectIDs = m
	}
	if m := v.GetStringMapString("section-subjects"); len(m) > 0 {
		cfg.SectionSubjects = m
	}
	if m := v.GetStringMapStringSlice("chapters"); len(m) > 0 {
		cfg.Chapters = m
	}
	if order := v.GetStringSlice("subject-order"); len(order) > 0 {
		cfg.SubjectOrder = order
	}
	cfg.StrongMin = v.GetFloat64("strong-min")
	cfg.WeakMax = v.GetFloat64("weak-max")

	return cfg
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	records, err := readAttempts(v.GetString("input"))
	if err != nil {
		return err
	}

	cfg := buildConfig(v)
	res, err := aggregate.Aggregate(records, cfg)
	if err != nil {
		return fmt.Errorf("aggregate attempt: %w", err)
	}

	if v.GetBool("context") {
		return writeOutput(v.GetString("output"), []byte(prompts.RenderContext(res, cfg)))
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	return writeOutput(v.GetString("output"), append(data, '\n'))
}

func runReport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	records, err := readAttempts(v.GetString("input"))
	if err != nil {
		return err
	}

	cfg := buildConfig(v)
	res, err := aggregate.Aggregate(records, cfg)
	if err != nil {
		return fmt.Errorf("aggregate attempt: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang))

	prompt, err := prompts.FeedbackPrompt(res, cfg)
	if err != nil {
		return err
	}
	client := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	narrative := llm.GenerateOrFallback(ctx, client, prompt)

	blocks := report.ParseNarrative(narrative)
	pdf, err := report.BuildPDF(ctx, blocks, aggregate.ChartData(res), aggregate.SubjectOrder(res, cfg))
	if err != nil {
		return err
	}

	outPath := v.GetString("output")
	if err := writeOutput(outPath, pdf); err != nil {
		return err
	}
	slog.Info("report written", "path", outPath, "bytes", len(pdf))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	client := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)

	h, err := handler.New(client, buildConfig(v))
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func readAttempts(path string) ([]model.Attempt, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return aggregate.Decode(data)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
