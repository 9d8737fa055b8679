package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts holds every fixed prompt the service sends to a language model.
// Templates use fmt verbs: Assist takes the prediction result, Classifier and RAGUser the question
// (RAGUser also takes the context block first).
type Prompts struct {
	Assist     string `yaml:"assist"`
	Classifier string `yaml:"classifier"`
	RAGSystem  string `yaml:"rag_system"`
	RAGUser    string `yaml:"rag_user"`
	Refusal    string `yaml:"refusal"`
}

const defaultAssistPrompt = `[INST] As a medical AI assistant, analyze this diabetes prediction result: %s

Please provide:
1. A clear explanation of what this means
2. Key health implications
3. Actionable lifestyle recommendations
4. Diet and exercise suggestions
5. When to seek medical attention

Keep the response concise but informative, using simple language.
[/INST]`

const defaultClassifierPrompt = `Classify the following question as either "medical" or "non-medical".
A question is medical if it concerns diabetes, health, symptoms, medication, diet, exercise or any other medical topic.
Answer with exactly one word: medical or non-medical.

Question: %s`

const defaultRAGSystemPrompt = `You are a helpful medical assistant specialised in diabetes.
Answer using only the provided context. Structure every answer as:
- a one-sentence summary
- bulleted key points
- bulleted practical recommendations when relevant
If the context does not contain the answer, say so plainly.
Always end with the line: "Disclaimer: This information is for educational purposes only and is not a substitute for professional medical advice."`

const defaultRAGUserPrompt = `Context:
%s

Question: %s

Answer:`

const defaultRefusal = "I'm sorry, but I can only answer medical questions related to diabetes and health. Please ask a health-related question."

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Assist:     defaultAssistPrompt,
		Classifier: defaultClassifierPrompt,
		RAGSystem:  defaultRAGSystemPrompt,
		RAGUser:    defaultRAGUserPrompt,
		Refusal:    defaultRefusal,
	}
}

// LoadPrompts returns the defaults overlaid with any non-empty entries from the YAML file at path.
// An empty path yields the defaults; a path that does not exist is an error.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts file: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts YAML: %w", err)
	}

	if override.Assist != "" {
		prompts.Assist = override.Assist
	}
	if override.Classifier != "" {
		prompts.Classifier = override.Classifier
	}
	if override.RAGSystem != "" {
		prompts.RAGSystem = override.RAGSystem
	}
	if override.RAGUser != "" {
		prompts.RAGUser = override.RAGUser
	}
	if override.Refusal != "" {
		prompts.Refusal = override.Refusal
	}

	fmt.Printf("Loaded prompt overrides from %s\n", path)
	return prompts, nil
}
