// Package main generates a markdown digest of recently published
// articles. Usage: advisory-digest [--window 168h] [--max 30] [--out FILE]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "advisory-news/internal/infra/adapter/persistence/postgres"
	"advisory-news/internal/infra/db"
	"advisory-news/internal/infra/summarizer"
	"advisory-news/internal/observability/logging"
	"advisory-news/internal/usecase/digest"
)

func main() {
	var (
		window  time.Duration
		maxArts int
		outPath string
		timeout time.Duration
	)
	flag.DurationVar(&window, "window", 7*24*time.Hour, "include articles published within this window")
	flag.IntVar(&maxArts, "max", 30, "maximum number of articles in the digest")
	flag.StringVar(&outPath, "out", "", "write the digest to this file instead of stdout")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "overall generation timeout")
	flag.Parse()

	logger := logging.NewTextLogger()

	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	svc := digest.NewService(
		pgRepo.NewArticleRepo(database),
		selectSummarizer(logger),
		digest.Config{Window: window, MaxArticles: maxArts},
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	markdown, err := svc.Generate(ctx)
	if err != nil {
		logger.Error("digest generation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
			logger.Error("failed to write digest", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("digest written", slog.String("path", outPath))
		return
	}

	fmt.Println(markdown)
}

// selectSummarizer picks the summarization backend from the available
// API keys. With no key configured the digest falls back to truncated
// article descriptions.
func selectSummarizer(logger *slog.Logger) digest.Summarizer {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		logger.Info("using claude summarizer")
		return summarizer.NewClaude(apiKey)
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		logger.Info("using openai summarizer")
		return summarizer.NewOpenAI(apiKey)
	}
	logger.Info("no summarizer API key configured, using plain excerpts")
	return summarizer.NewNoOp()
}
