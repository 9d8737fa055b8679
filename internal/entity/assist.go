package entity

type AssistRequest struct {
	Result *string `json:"result"`
}

type AssistResponse struct {
	Assistance string `json:"assistance"`
}

type AskRequest struct {
	Query *string `json:"query"`
}

type AskResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// GenerateOptions are the sampling knobs passed to any text generator.
// Zero values mean "provider default".
type GenerateOptions struct {
	System            string
	MaxTokens         int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
}
