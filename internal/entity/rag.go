package entity

// Chunk is one embedded piece of a source document stored in the vector index
type Chunk struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Source  string    `json:"source,omitempty"`
	Page    int       `json:"page,omitempty"`
	Vector  []float32 `json:"vector"`
}

type SearchResult struct {
	Chunk Chunk
	Score float64
}

// RAGAnswer is the outcome of one retrieval-augmented query
type RAGAnswer struct {
	Answer  string
	Sources []string
}
