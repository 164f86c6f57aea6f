// Package corpus generates a small synthetic JSON document collection for
// local smoke testing, the way the original implementation's main.rs
// ships a generate_files_to_index helper so the whole pipeline can be
// exercised without a real dataset on hand. This is not part of the core
// indexing/retrieval contract — it exists purely to make the repo runnable
// end to end out of the box.
package corpus

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var sampleWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "cat",
	"runs", "fast", "slow", "bright", "sun", "moon", "river", "mountain",
	"forest", "ocean", "city", "village", "search", "index", "query",
	"document", "token", "score", "relevance", "field", "weight",
}

// Document is the JSON shape written for each generated document.
type Document struct {
	DocID string `json:"docid"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Options controls corpus generation.
type Options struct {
	OutDir       string
	Count        int
	TitleWords   int
	BodyWords    int
	Seed         int64
}

// Generate writes Count JSON documents into OutDir, each with a random
// title and body built from a small fixed vocabulary.
func Generate(opts Options) error {
	if opts.Count <= 0 {
		return fmt.Errorf("corpus: count must be positive, got %d", opts.Count)
	}
	if opts.TitleWords <= 0 {
		opts.TitleWords = 5
	}
	if opts.BodyWords <= 0 {
		opts.BodyWords = 30
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("corpus: create out dir: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	for i := 0; i < opts.Count; i++ {
		doc := Document{
			DocID: fmt.Sprintf("doc-%06d", i),
			Title: randomSentence(rng, opts.TitleWords),
			Body:  randomSentence(rng, opts.BodyWords),
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("corpus: marshal document %d: %w", i, err)
		}
		path := filepath.Join(opts.OutDir, fmt.Sprintf("%06d.json", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("corpus: write document %d: %w", i, err)
		}
	}
	return nil
}

func randomSentence(rng *rand.Rand, numWords int) string {
	words := make([]string, numWords)
	for i := range words {
		words[i] = sampleWords[rng.Intn(len(sampleWords))]
	}
	out := words[0]
	for _, w := range words[1:] {
		out += " " + w
	}
	return out
}
