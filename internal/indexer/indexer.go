// Package indexer runs the full batch build: read every source document,
// tokenize its configured fields, accumulate postings/lengths/average
// lengths/stats, and persist the result as a flat set of index files.
//
// The concurrency topology — a producer walking the document directory, a
// fixed pool of workers each owning private per-field accumulators, and a
// single merge point that folds worker-local results together — is
// grounded on the teacher's internal/indexing (per-writer WriteBuffer,
// accumulate-then-commit) together with internal/coordinator.go's
// WaitGroup + channel fan-out/fan-in shape, adapted from a network RPC
// fan-out to an in-process goroutine pool. The final persist step borrows
// the teacher's internal/commit write -> fsync -> rename idiom
// (internal/storage.AtomicWriteFile) without its generation/manifest
// bookkeeping, since there is only ever one write-once build per output
// directory.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"bm25fts/internal/avglengths"
	"bm25fts/internal/config"
	"bm25fts/internal/docid"
	"bm25fts/internal/docreader"
	"bm25fts/internal/layout"
	"bm25fts/internal/lengths"
	"bm25fts/internal/postings"
	"bm25fts/internal/stats"
	"bm25fts/internal/storage"
	"bm25fts/internal/tokenize"
)

// Options configures a single index build.
type Options struct {
	DocsDir string
	OutDir  string
	Fields  config.Config
	Logger  *slog.Logger
	// NumWorkers overrides the default of runtime.NumCPU(); zero means use
	// the default.
	NumWorkers int
}

// Result summarizes a completed build.
type Result struct {
	NumDocs     uint64
	TotalTokens map[string]uint64
}

// accumulator holds one worker's (or the final merged) per-field state.
type accumulator struct {
	postings map[string]*postings.Builder
	lengths  map[string]*lengths.Builder
}

func newAccumulator(indexKeys []string) *accumulator {
	a := &accumulator{
		postings: make(map[string]*postings.Builder, len(indexKeys)),
		lengths:  make(map[string]*lengths.Builder, len(indexKeys)),
	}
	for _, k := range indexKeys {
		a.postings[k] = postings.NewBuilder()
		a.lengths[k] = lengths.NewBuilder()
	}
	return a
}

func (a *accumulator) merge(other *accumulator) {
	for k, b := range other.postings {
		a.postings[k].Merge(b)
	}
	for k, b := range other.lengths {
		a.lengths[k].Merge(b)
	}
}

// Run executes a full build: read, tokenize, accumulate, merge, persist.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Fields.Validate(); err != nil {
		return nil, fmt.Errorf("indexer: invalid field configuration: %w", err)
	}
	cfg := opts.Fields.WithDefaults()
	indexKeys := cfg.IndexKeys()

	fieldSpecs := make([]docreader.FieldSpec, len(cfg.Fields))
	for i, f := range cfg.Fields {
		fieldSpecs[i] = docreader.FieldSpec{DocField: f.DocField, IndexKey: f.IndexKey}
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	jobs := make(chan docreader.Document, numWorkers)
	results := make(chan *accumulator, numWorkers)
	errs := make(chan error, numWorkers+1)

	var wg sync.WaitGroup
	var docCount uint64
	var docCountMu sync.Mutex

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs <- fmt.Errorf("indexer: worker panic: %v", r)
				}
			}()

			local := newAccumulator(indexKeys)
			var localCount uint64
			for doc := range jobs {
				select {
				case <-ctx.Done():
					continue
				default:
				}
				processDocument(doc, cfg, local)
				localCount++
			}
			docCountMu.Lock()
			docCount += localCount
			docCountMu.Unlock()
			results <- local
		}()
	}

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		err := docreader.Walk(opts.DocsDir, fieldSpecs, logger, func(doc docreader.Document) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- doc:
				return nil
			}
		})
		producerErr <- err
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := newAccumulator(indexKeys)
	for acc := range results {
		merged.merge(acc)
	}

	if err := <-producerErr; err != nil {
		return nil, fmt.Errorf("indexer: walking documents: %w", err)
	}
	select {
	case err := <-errs:
		return nil, err
	default:
	}

	avgBuilder := avglengths.NewBuilder()
	totalTokens := make(map[string]uint64, len(indexKeys))
	for _, key := range indexKeys {
		lb := merged.lengths[key]
		avgBuilder.Add(key, lb.Sum(), uint64(lb.DocCount()))
		totalTokens[key] = lb.Sum()
	}

	st := &stats.Stats{NumDocs: docCount, TotalTokens: totalTokens}

	if err := persist(opts.OutDir, indexKeys, merged, avgBuilder, st); err != nil {
		return nil, fmt.Errorf("indexer: persisting index: %w", err)
	}

	logger.Info("index build complete", "docs", docCount, "fields", len(indexKeys), "out_dir", opts.OutDir)

	return &Result{NumDocs: docCount, TotalTokens: totalTokens}, nil
}

func processDocument(doc docreader.Document, cfg config.Config, acc *accumulator) {
	buf, err := docid.Normalize(doc.DocID)
	if err != nil {
		// Already validated by docreader, but guard defensively in case a
		// caller constructs Documents directly.
		return
	}
	key := string(buf[:])

	for _, f := range cfg.Fields {
		text, ok := doc.Fields[f.IndexKey]
		if !ok {
			continue
		}
		tokens := tokenize.Tokens(text)
		pb := acc.postings[f.IndexKey]
		for _, tok := range tokens {
			pb.Add(tok, key)
		}
		acc.lengths[f.IndexKey].Set(key, uint64(len(tokens)))
	}
}

func persist(outDir string, indexKeys []string, acc *accumulator, avgBuilder *avglengths.Builder, st *stats.Stats) error {
	if err := storage.EnsureDir(outDir); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	for _, key := range indexKeys {
		fstBytes, dataBytes, err := acc.postings[key].Write()
		if err != nil {
			return fmt.Errorf("write postings for %q: %w", key, err)
		}
		if err := writeAndVerify(layout.PostingsFST(outDir, key), fstBytes, outDir); err != nil {
			return fmt.Errorf("persist postings fst for %q: %w", key, err)
		}
		if err := writeAndVerify(layout.PostingsData(outDir, key), dataBytes, outDir); err != nil {
			return fmt.Errorf("persist postings data for %q: %w", key, err)
		}

		lengthBytes, err := acc.lengths[key].Write()
		if err != nil {
			return fmt.Errorf("write lengths for %q: %w", key, err)
		}
		if err := writeAndVerify(layout.LengthsFST(outDir, key), lengthBytes, outDir); err != nil {
			return fmt.Errorf("persist lengths for %q: %w", key, err)
		}
	}

	avgBytes, err := avgBuilder.Write()
	if err != nil {
		return fmt.Errorf("write average lengths: %w", err)
	}
	if err := writeAndVerify(layout.AvgLengths(outDir), avgBytes, outDir); err != nil {
		return fmt.Errorf("persist average lengths: %w", err)
	}

	statsBytes, err := stats.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := writeAndVerify(layout.Stats(outDir), statsBytes, outDir); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}

	return nil
}

// writeAndVerify atomically writes data to path, then reads the file back
// and checks its SHA-256 against a checksum of data computed before the
// write — catching silent corruption introduced by the write/rename/fsync
// path itself, since there is no other read of a freshly built index until
// a retriever opens it later.
func writeAndVerify(path string, data []byte, tmpDir string) error {
	expected := storage.ComputeChecksum(data)
	if err := storage.AtomicWriteFile(path, data, tmpDir); err != nil {
		return err
	}
	if err := storage.VerifyFileChecksum(path, expected); err != nil {
		return fmt.Errorf("verify written file %s: %w", path, err)
	}
	return nil
}
