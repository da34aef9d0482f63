// Copyright 2025 Aphorium Authors
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/aphorium/aphorium"
	"github.com/aphorium/aphorium/ingestion"
	"github.com/aphorium/aphorium/linker"
	"github.com/aphorium/aphorium/search"
)

func main() {
	app := &cli.App{
		Name:  "aphorium",
		Usage: "Bilingual aphorism store with cross-language linking and search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest quote fragments from a TSV or JSON export",
				Action: ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to the fragment export (.json or .tsv)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for async indexing",
					},
				),
			},
			{
				Name:   "link",
				Usage:  "Link translations across languages for every bilingual author",
				Action: linkCommand,
				Flags: append(append(databaseFlags(), translatorFlags()...),
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for per-author linking",
					},
					&cli.IntFlag{
						Name:  "min-overlap",
						Usage: "Minimum shared content-word stems per pair",
					},
					&cli.IntFlag{
						Name:  "min-confidence",
						Usage: "Minimum pair confidence (0-100)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search quotes and print bilingual pairs",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags: append(append(databaseFlags(), translatorFlags()...),
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Limit hits to one language (en, ru, both)",
						Value: "both",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of pairs",
						Value: search.DefaultLimit,
					},
					&cli.BoolFlag{
						Name:  "prefer-bilingual",
						Usage: "Rank pairs with both languages first",
					},
				),
			},
			{
				Name:   "clean",
				Usage:  "Re-classify stored quotes, stripping citations and deleting noise",
				Action: cleanCommand,
				Flags:  databaseFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the database directory",
			Required: true,
		},
	}
}

func translatorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "google-credentials",
			Usage: "Google Cloud credentials file enabling the Google provider",
		},
		&cli.StringFlag{
			Name:  "mymemory-email",
			Usage: "Contact email raising the MyMemory request quota",
		},
		&cli.StringFlag{
			Name:  "llm-host",
			Usage: "OpenAI-compatible host enabling the LLM provider",
		},
		&cli.StringFlag{
			Name:  "llm-token",
			Usage: "API token for the LLM provider",
		},
		&cli.StringFlag{
			Name:  "llm-model",
			Usage: "Model name for the LLM provider",
		},
	}
}

func openDatabase(c *cli.Context) (*aphorium.Database, error) {
	var opts []aphorium.DatabaseOption
	if creds := c.String("google-credentials"); creds != "" {
		opts = append(opts, aphorium.WithGoogleCredentials(creds))
	}
	if email := c.String("mymemory-email"); email != "" {
		opts = append(opts, aphorium.WithMyMemoryEmail(email))
	}
	if host := c.String("llm-host"); host != "" {
		opts = append(opts, aphorium.WithLLMTranslator(host, c.String("llm-token"), c.String("llm-model")))
	}

	db, err := aphorium.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fragments, err := readFragments(c.String("input"))
	if err != nil {
		return err
	}

	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	stats, err := pipeline.Ingest(context.Background(), fragments)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Accepted: %d\nRejected: %d\nDuplicates: %d\n",
		stats.Accepted, stats.Rejected, stats.Duplicates)
	for reason, count := range stats.RejectedByReason {
		if reason == "" {
			reason = "unclassified"
		}
		fmt.Fprintf(os.Stderr, "  %s: %d\n", reason, count)
	}
	return nil
}

func linkCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []linker.Option{linker.WithProgress(os.Stderr)}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, linker.WithPoolSize(size))
	}
	cfg := linker.Config{
		MinOverlap:    c.Int("min-overlap"),
		MinConfidence: c.Int("min-confidence"),
	}
	opts = append(opts, linker.WithConfig(cfg))

	l, err := db.NewLinker(opts...)
	if err != nil {
		return fmt.Errorf("failed to create linker: %w", err)
	}
	defer l.Release()

	stats, err := l.LinkAll(context.Background())
	if err != nil {
		return fmt.Errorf("linking failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Authors processed: %d (skipped %d)\nLinks created: %d\nGroups created: %d (reused %d)\n",
		stats.AuthorsProcessed, stats.AuthorsSkipped, stats.LinksCreated,
		stats.GroupsCreated, stats.GroupsReused)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	pairs, err := searcher.Search(context.Background(), search.Query{
		Text:            query,
		Language:        c.String("lang"),
		PreferBilingual: c.Bool("prefer-bilingual"),
		Limit:           c.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i, pair := range pairs {
		fmt.Printf("%d. (score %.3f)\n", i+1, pair.Score)
		if pair.English != nil {
			fmt.Printf("   en: %s\n", pair.English.Text)
		}
		if pair.Russian != nil {
			marker := ""
			if pair.IsTranslated && pair.English != nil {
				marker = " [linked]"
			}
			fmt.Printf("   ru: %s%s\n", pair.Russian.Text, marker)
		}
	}
	if len(pairs) == 0 {
		fmt.Println("no results")
	}
	return nil
}

func cleanCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cleaner, err := db.NewCleaner()
	if err != nil {
		return fmt.Errorf("failed to create cleaner: %w", err)
	}

	stats, err := cleaner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Examined: %d\nRewritten: %d\nDeleted: %d\nKept despite rejection: %d\n",
		stats.Examined, stats.Rewritten, stats.Deleted, stats.Kept)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
