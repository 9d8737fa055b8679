package entity

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthComponents struct {
	MLModel  bool `json:"ml_model"`
	Scaler   bool `json:"scaler"`
	RAGChain bool `json:"rag_chain"`
}

type HealthResponse struct {
	Status     string           `json:"status"`
	Components HealthComponents `json:"components"`
}

type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
