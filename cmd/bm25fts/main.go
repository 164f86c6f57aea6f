// Command bm25fts drives the batch index build, the one-shot query tool,
// the read-only query HTTP server, and the synthetic corpus generator from
// a single binary.
//
// Subcommand structure and the log/slog JSON logging setup follow the
// teacher's cmd/server/main.go (slog.New(slog.NewJSONHandler(...)), a
// GOTEXTSEARCH_LOG_LEVEL-style env var read through a getEnv helper),
// restructured around github.com/spf13/cobra subcommands instead of a
// single long-running HTTP process.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"bm25fts/internal/config"
	"bm25fts/internal/corpus"
	"bm25fts/internal/httpapi"
	"bm25fts/internal/indexer"
	"bm25fts/internal/layout"
	"bm25fts/internal/retriever"
	"bm25fts/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bm25fts",
		Short: "BM25F field-weighted full-text indexer and query server",
	}
	root.AddCommand(newBuildCmd(), newQueryCmd(), newServeCmd(), newGenerateCmd())
	return root
}

func newLogger() *slog.Logger {
	level := parseLogLevel(getEnv("BM25FTS_LOG_LEVEL", "info"))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// requireIndex checks that dir looks like a built index (its stats file
// exists) before a retriever attempts to open it, so a missing or wrong
// --index directory fails with a clear message instead of a low-level
// mmap/open error.
func requireIndex(dir string) error {
	if !storage.FileExists(layout.Stats(dir)) {
		return fmt.Errorf("%s does not look like a built index (missing %s)", dir, layout.Stats(dir))
	}
	return nil
}

func parseFields(raw []string) (config.Config, error) {
	cfg := config.Config{Fields: make([]config.Field, 0, len(raw))}
	for _, r := range raw {
		f, err := config.ParseField(r)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Fields = append(cfg.Fields, f)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newBuildCmd() *cobra.Command {
	var docsDir, outDir string
	var fields []string
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an index from a directory of JSON documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := parseFields(fields)
			if err != nil {
				return err
			}

			if storage.DirExists(outDir) {
				if !force {
					return fmt.Errorf("build: %s already exists; pass --force to rebuild into it", outDir)
				}
				removed, err := storage.RemoveDirContents(outDir)
				if err != nil {
					return fmt.Errorf("build: clearing stale out dir: %w", err)
				}
				logger.Info("cleared stale out dir", "out_dir", outDir, "removed", len(removed))
			}

			bar := progressbar.NewOptions(-1, progressbar.OptionSetDescription("indexing documents"))
			defer bar.Close()

			result, err := indexer.Run(cmd.Context(), indexer.Options{
				DocsDir: docsDir,
				OutDir:  outDir,
				Fields:  cfg,
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			bar.Set(int(result.NumDocs))

			fmt.Printf("indexed %d documents into %s\n", result.NumDocs, outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&docsDir, "docs", "", "directory of source JSON documents (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for the built index (required)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "doc_field=index_key[:weight:k1:b], repeatable (required)")
	cmd.Flags().BoolVar(&force, "force", false, "clear an existing --out directory before building")
	cmd.MarkFlagRequired("docs")
	cmd.MarkFlagRequired("out")
	cmd.MarkFlagRequired("field")
	return cmd
}

func newQueryCmd() *cobra.Command {
	var indexDir string
	var fields []string
	var topK int

	cmd := &cobra.Command{
		Use:   "query [query terms...]",
		Short: "Run a single query against a built index and print ranked JSON results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseFields(fields)
			if err != nil {
				return err
			}
			if err := requireIndex(indexDir); err != nil {
				return fmt.Errorf("query: %w", err)
			}

			r, err := retriever.Open(indexDir, cfg)
			if err != nil {
				return fmt.Errorf("query: open index: %w", err)
			}
			defer r.Close()

			text := ""
			for i, a := range args {
				if i > 0 {
					text += " "
				}
				text += a
			}

			hits, err := r.Query(text, topK)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		},
	}

	cmd.Flags().StringVar(&indexDir, "index", "", "index directory to query (required)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "doc_field=index_key[:weight:k1:b], repeatable (required)")
	cmd.Flags().IntVar(&topK, "k", 10, "number of top results to return")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("field")
	return cmd
}

func newServeCmd() *cobra.Command {
	var indexDir, addr string
	var fields []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only BM25F queries over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := parseFields(fields)
			if err != nil {
				return err
			}
			if err := requireIndex(indexDir); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			r, err := retriever.Open(indexDir, cfg)
			if err != nil {
				return fmt.Errorf("serve: open index: %w", err)
			}
			defer r.Close()

			srv := httpapi.NewServer(r, logger)
			httpServer := &http.Server{
				Addr:         addr,
				Handler:      srv.Handler(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			logger.Info("listening", "addr", addr, "index", indexDir)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexDir, "index", "", "index directory to serve (required)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "doc_field=index_key[:weight:k1:b], repeatable (required)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("field")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var docsDir string
	var count int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic JSON document corpus for smoke testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := corpus.Generate(corpus.Options{OutDir: docsDir, Count: count, Seed: seed}); err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Printf("generated %d documents into %s\n", count, docsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&docsDir, "docs", "", "output directory for generated documents (required)")
	cmd.Flags().IntVar(&count, "count", 100, "number of documents to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.MarkFlagRequired("docs")
	return cmd
}
