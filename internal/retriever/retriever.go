// Package retriever opens a finished index directory and answers repeated
// BM25F queries against it.
//
// Every index file is memory-mapped once at Open and never copied into
// process memory wholesale, so a retriever can sit in front of an index far
// larger than RAM. Query scores each of a request's tokens in its own
// goroutine (one goroutine per token; the number running at once is not
// capped) and merges partial per-document scores at a single point — the
// WaitGroup/heap shape of the teacher's
// internal/coordinator.go Search/fanOut/mergeTopK, adapted from a
// network RPC fan-out over remote shards to an in-process fan-out over
// local goroutines, since there is exactly one (local) index to query here.
package retriever

import (
	"container/heap"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/edsrzf/mmap-go"

	"bm25fts/internal/avglengths"
	"bm25fts/internal/config"
	"bm25fts/internal/docid"
	"bm25fts/internal/layout"
	"bm25fts/internal/lengths"
	"bm25fts/internal/postings"
	"bm25fts/internal/scoring"
	"bm25fts/internal/stats"
	"bm25fts/internal/tokenize"
)

// Hit is one ranked result.
type Hit struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// mappedFile tracks an open file handle and its mmap so Close can release
// both.
type mappedFile struct {
	file *os.File
	mm   mmap.MMap
}

func (m *mappedFile) close() error {
	var firstErr error
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openMapped(path string) (*mappedFile, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		// mmap of a zero-length file fails on most platforms; an empty
		// field (no postings at all) is valid, so fall back to an empty
		// slice instead of mapping.
		return &mappedFile{file: f}, nil, nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mappedFile{file: f, mm: mm}, []byte(mm), nil
}

// Retriever serves BM25F queries over one open index directory.
type Retriever struct {
	cfg   config.Config
	stats *stats.Stats

	postingsReaders map[string]*postings.Reader
	lengthsReaders  map[string]*lengths.Reader
	avgReader       *avglengths.Reader

	mapped []*mappedFile
}

// Open mmaps every file in dir described by cfg and loads index_stats.json.
func Open(dir string, cfg config.Config) (*Retriever, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("retriever: invalid field configuration: %w", err)
	}
	cfg = cfg.WithDefaults()

	r := &Retriever{
		cfg:             cfg,
		postingsReaders: make(map[string]*postings.Reader, len(cfg.Fields)),
		lengthsReaders:  make(map[string]*lengths.Reader, len(cfg.Fields)),
	}

	ok := false
	defer func() {
		if !ok {
			r.Close()
		}
	}()

	statsData, err := os.ReadFile(layout.Stats(dir))
	if err != nil {
		return nil, fmt.Errorf("retriever: read stats: %w", err)
	}
	r.stats, err = stats.Unmarshal(statsData)
	if err != nil {
		return nil, fmt.Errorf("retriever: parse stats: %w", err)
	}

	for _, f := range cfg.Fields {
		pf, pFSTBytes, err := openMapped(layout.PostingsFST(dir, f.IndexKey))
		if err != nil {
			return nil, fmt.Errorf("retriever: open postings fst for %q: %w", f.IndexKey, err)
		}
		r.mapped = append(r.mapped, pf)

		pd, pDataBytes, err := openMapped(layout.PostingsData(dir, f.IndexKey))
		if err != nil {
			return nil, fmt.Errorf("retriever: open postings data for %q: %w", f.IndexKey, err)
		}
		r.mapped = append(r.mapped, pd)

		pr, err := postings.OpenReader(pFSTBytes, pDataBytes)
		if err != nil {
			return nil, fmt.Errorf("retriever: load postings fst for %q: %w", f.IndexKey, err)
		}
		r.postingsReaders[f.IndexKey] = pr

		lf, lFSTBytes, err := openMapped(layout.LengthsFST(dir, f.IndexKey))
		if err != nil {
			return nil, fmt.Errorf("retriever: open lengths fst for %q: %w", f.IndexKey, err)
		}
		r.mapped = append(r.mapped, lf)

		lr, err := lengths.OpenReader(lFSTBytes)
		if err != nil {
			return nil, fmt.Errorf("retriever: load lengths fst for %q: %w", f.IndexKey, err)
		}
		r.lengthsReaders[f.IndexKey] = lr
	}

	af, aFSTBytes, err := openMapped(layout.AvgLengths(dir))
	if err != nil {
		return nil, fmt.Errorf("retriever: open average lengths: %w", err)
	}
	r.mapped = append(r.mapped, af)

	r.avgReader, err = avglengths.OpenReader(aFSTBytes)
	if err != nil {
		return nil, fmt.Errorf("retriever: load average lengths: %w", err)
	}

	ok = true
	return r, nil
}

// Close releases every mmap and file handle held by the retriever.
func (r *Retriever) Close() error {
	var firstErr error
	for _, m := range r.mapped {
		if m == nil {
			continue
		}
		if err := m.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Query tokenizes text with the same contract used at index time, scores
// every resulting token against the index, sums per-document contributions
// across tokens, and returns the topK highest-scoring hits in descending
// score order.
func (r *Retriever) Query(text string, topK int) ([]Hit, error) {
	tokens := tokenize.Tokens(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	type tokenResult struct {
		perDoc map[string]float64
		err    error
	}

	results := make([]tokenResult, len(tokens))
	var wg sync.WaitGroup
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					results[i] = tokenResult{err: fmt.Errorf("worker panic: %v", p)}
				}
			}()
			perDoc, err := r.scoreToken(tok)
			results[i] = tokenResult{perDoc: perDoc, err: err}
		}(i, tok)
	}
	wg.Wait()

	total := make(map[string]float64)
	for _, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("retriever: scoring token: %w", res.err)
		}
		for docKey, score := range res.perDoc {
			total[docKey] += score
		}
	}

	return topKHits(total, topK), nil
}

// scoreToken computes, for a single token, each matching document's
// summed BM25F contribution across every configured field, keyed by the
// document's normalized (still zero-padded) DocID buffer.
func (r *Retriever) scoreToken(token string) (map[string]float64, error) {
	fieldMatches := make(map[string]map[string]uint64, len(r.cfg.Fields))
	docIDSet := make(map[string]struct{})

	for _, f := range r.cfg.Fields {
		reader, ok := r.postingsReaders[f.IndexKey]
		if !ok {
			continue
		}
		entries, found, err := reader.Lookup(token)
		if err != nil {
			return nil, fmt.Errorf("lookup token %q in field %q: %w", token, f.IndexKey, err)
		}
		if !found {
			continue
		}
		m := make(map[string]uint64, len(entries))
		for _, e := range entries {
			m[e.DocID] = e.Freq
			docIDSet[e.DocID] = struct{}{}
		}
		fieldMatches[f.IndexKey] = m
	}

	if len(docIDSet) == 0 {
		return nil, nil
	}

	df := uint64(len(docIDSet))
	idf := scoring.IDF(r.stats.NumDocs, df)

	perDoc := make(map[string]float64, len(docIDSet))
	for docKey := range docIDSet {
		// The weighted document length dl_w(d) is a single combined value
		// summed across every field this token matched d in — not this
		// field's own length — and is shared by every field's own
		// denominator below (see _examples/original_source's
		// get_bm25f_doc_len).
		weightedDocLen, err := r.weightedDocLen(token, docKey, fieldMatches)
		if err != nil {
			return nil, err
		}

		var fieldStats []scoring.FieldStats
		for _, f := range r.cfg.Fields {
			m, ok := fieldMatches[f.IndexKey]
			if !ok {
				continue
			}
			tf, ok := m[docKey]
			if !ok || tf == 0 {
				continue
			}
			avg, found, err := r.avgReader.Lookup(f.IndexKey)
			if err != nil {
				return nil, fmt.Errorf("lookup average length for field %q: %w", f.IndexKey, err)
			}
			if !found {
				return nil, fmt.Errorf("retriever: missing average length for field %q", f.IndexKey)
			}
			fieldStats = append(fieldStats, scoring.FieldStats{
				Weight: f.Weight, K1: f.K1, B: f.B,
				TermFreq: tf, DocLen: weightedDocLen, AvgLen: avg,
			})
		}
		perDoc[docKey] = scoring.TermScore(idf, fieldStats)
	}

	return perDoc, nil
}

// weightedDocLen computes dl_w(d) = Σ_f weight[f]*length(d,f) summed over
// every configured field that matched token in docKey. A matched field with
// no corresponding lengths entry is a hard error: a document cannot have
// been indexed into a field's postings without also recording its length
// for that field, so a miss here means the index is corrupt.
func (r *Retriever) weightedDocLen(token, docKey string, fieldMatches map[string]map[string]uint64) (float64, error) {
	var total float64
	for _, f := range r.cfg.Fields {
		m, ok := fieldMatches[f.IndexKey]
		if !ok {
			continue
		}
		if _, matched := m[docKey]; !matched {
			continue
		}
		rawLen, found, err := r.lengthsReaders[f.IndexKey].Lookup(docKey)
		if err != nil {
			return 0, fmt.Errorf("lookup length for field %q: %w", f.IndexKey, err)
		}
		if !found {
			return 0, fmt.Errorf("retriever: missing length for matched docid in field %q while scoring token %q", f.IndexKey, token)
		}
		total += f.Weight * float64(rawLen)
	}
	return total, nil
}

// topKHits selects the topK highest-scoring documents from scores (keyed
// by normalized DocID buffer), denormalizes each DocID for output, and
// returns them sorted by descending score. Uses a bounded min-heap so
// memory stays O(k) regardless of how many documents matched, the same
// approach as the teacher's coordinator.mergeTopK.
func topKHits(scores map[string]float64, topK int) []Hit {
	if topK <= 0 {
		topK = 10
	}

	h := &hitHeap{}
	heap.Init(h)
	for docKey, score := range scores {
		hit := Hit{DocID: docid.DenormalizeBytes([]byte(docKey)), Score: score}
		if h.Len() < topK {
			heap.Push(h, hit)
		} else if hit.Score > (*h)[0].Score {
			(*h)[0] = hit
			heap.Fix(h, 0)
		}
	}

	out := make([]Hit, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Hit)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// hitHeap is a min-heap of Hit ordered by score, used to keep only the top
// K results in memory while scanning an unbounded match set.
type hitHeap []Hit

func (h hitHeap) Len() int            { return len(h) }
func (h hitHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h hitHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)         { *h = append(*h, x.(Hit)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
