package rag

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const encodingName = "cl100k_base"

// BPE ranks ship with the binary; the library default downloads them on first use.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// TokenCounter measures prompt text against the context budget.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts cl100k_base tokens.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encodingName, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (t *TiktokenCounter) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// WordCounter approximates tokens as 4/3 of the whitespace-separated words.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}
