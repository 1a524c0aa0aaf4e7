// Package search ranks dataset rows by cosine similarity against a query
// embedding.
package search

import (
	"math"
	"sort"

	"github.com/Simple2B/bidhive-ml-api/internal/dataset"
)

// Result is one ranked row. Not persisted anywhere.
type Result struct {
	Row   dataset.Row
	Score float64
}

// Cosine returns dot(a,b) / (||a|| * ||b||). Mismatched lengths or a
// zero-norm vector give 0; callers exclude those rows before ranking.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopN returns the n rows most similar to the query embedding, best first.
// Rows without a usable embedding (missing, wrong length, zero norm) are
// excluded. Equal scores keep dataset order, and the input slice is never
// reordered.
func TopN(rows []dataset.Row, query []float32, n int) []Result {
	if n <= 0 {
		n = 1
	}

	candidates := make([]Result, 0, len(rows))
	for _, row := range rows {
		if len(row.QuestionEmbedding) != len(query) || zeroNorm(row.QuestionEmbedding) || zeroNorm(query) {
			continue
		}
		candidates = append(candidates, Result{
			Row:   row,
			Score: Cosine(row.QuestionEmbedding, query),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func zeroNorm(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
