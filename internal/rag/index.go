package rag

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/futig/diabetes-api/internal/entity"
)

// IndexFile is the file name of the persisted index inside the index directory.
const IndexFile = "index.json"

type indexFile struct {
	EmbeddingModel string         `json:"embedding_model"`
	Dimension      int            `json:"dimension"`
	Chunks         []entity.Chunk `json:"chunks"`
}

// Index is an immutable in-memory vector store searched by cosine similarity.
type Index struct {
	embeddingModel string
	dimension      int
	chunks         []entity.Chunk
	norms          []float64
}

// DecodeIndex parses a persisted index. When embeddingModel is non-empty the index must have been
// built with the same model.
func DecodeIndex(data []byte, embeddingModel string) (*Index, error) {
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrIndexInvalid, err)
	}

	if f.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", entity.ErrIndexInvalid, f.Dimension)
	}
	if len(f.Chunks) == 0 {
		return nil, fmt.Errorf("%w: index has no chunks", entity.ErrIndexInvalid)
	}
	if embeddingModel != "" && f.EmbeddingModel != "" && f.EmbeddingModel != embeddingModel {
		return nil, fmt.Errorf("%w: built with embedding model %q, configured %q",
			entity.ErrIndexInvalid, f.EmbeddingModel, embeddingModel)
	}

	norms := make([]float64, len(f.Chunks))
	for i, c := range f.Chunks {
		if len(c.Vector) != f.Dimension {
			return nil, fmt.Errorf("%w: chunk %q has %d dimensions, want %d",
				entity.ErrIndexInvalid, c.ID, len(c.Vector), f.Dimension)
		}
		norms[i] = norm(c.Vector)
	}

	return &Index{
		embeddingModel: f.EmbeddingModel,
		dimension:      f.Dimension,
		chunks:         f.Chunks,
		norms:          norms,
	}, nil
}

func (ix *Index) Dimension() int { return ix.dimension }

func (ix *Index) Len() int { return len(ix.chunks) }

// Search returns up to k chunks ordered by descending cosine similarity to query.
// Ties keep index order.
func (ix *Index) Search(query []float32, k int) ([]entity.SearchResult, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			entity.ErrFeatureMismatch, len(query), ix.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	qn := norm(query)
	results := make([]entity.SearchResult, len(ix.chunks))
	for i, c := range ix.chunks {
		results[i] = entity.SearchResult{Chunk: c, Score: cosine(query, qn, c.Vector, ix.norms[i])}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
