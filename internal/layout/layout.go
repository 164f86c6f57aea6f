// Package layout names the flat set of files an index build writes to its
// output directory, shared by the indexer (which writes them) and the
// retriever (which mmaps them back open). Keeping the names in one place
// means the two never drift apart.
package layout

import "path/filepath"

// PostingsFST returns the path of the postings FST file for indexKey.
func PostingsFST(outDir, indexKey string) string {
	return filepath.Join(outDir, "postings_index_"+indexKey+".fst")
}

// PostingsData returns the path of the postings data file for indexKey.
func PostingsData(outDir, indexKey string) string {
	return filepath.Join(outDir, "postings_data_"+indexKey+".bin")
}

// LengthsFST returns the path of the document-length FST file for indexKey.
func LengthsFST(outDir, indexKey string) string {
	return filepath.Join(outDir, "lengths_index_"+indexKey+".fst")
}

// AvgLengths returns the path of the single shared average-length FST file.
func AvgLengths(outDir string) string {
	return filepath.Join(outDir, "avg_lengths_index.fst")
}

// Stats returns the path of the single shared index_stats.json file.
func Stats(outDir string) string {
	return filepath.Join(outDir, "index_stats.json")
}
