// Package search builds an in-memory semantic index over flattened
// assignment documents so people can be found by free-text query.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mpawlak/skillatlas/internal/assignment"
)

// Embedder turns texts into embedding vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Result is one search hit with its cosine similarity score.
type Result struct {
	Document assignment.Document `json:"document"`
	Score    float64             `json:"score"`
}

type Index struct {
	docs    []assignment.Document
	vectors [][]float32
}

// Build embeds every document and keeps the vectors in memory. The index is
// rebuilt per invocation; nothing is persisted.
func Build(ctx context.Context, embedder Embedder, docs []assignment.Document) (*Index, error) {
	if len(docs) == 0 {
		return &Index{}, nil
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.Text)
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}

	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	return &Index{docs: docs, vectors: vectors}, nil
}

func (i *Index) Len() int {
	return len(i.docs)
}

// Search embeds the query and returns the top-k documents by cosine
// similarity, highest first. Ties keep document order.
func (i *Index) Search(ctx context.Context, embedder Embedder, query string, k int) ([]Result, error) {
	if len(i.docs) == 0 {
		return nil, nil
	}

	queryVectors, err := embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(queryVectors))
	}

	results := make([]Result, 0, len(i.docs))
	for idx, doc := range i.docs {
		results = append(results, Result{
			Document: doc,
			Score:    cosine(queryVectors[0], i.vectors[idx]),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > 0 && k < len(results) {
		results = results[:k]
	}

	return results, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
