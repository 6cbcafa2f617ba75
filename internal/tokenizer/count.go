package tokenizer

import (
	"errors"
)

// Estimate is the token count of a rendered tree.
type Estimate struct {
	Model  string
	Tokens int
}

// CountText estimates tokens for the rendered text using counter.
func CountText(counter Counter, text string) (Estimate, error) {
	if counter == nil {
		return Estimate{}, errors.New("nil tokenizer counter")
	}
	tokens, err := counter.CountString(text)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{Model: counter.Name(), Tokens: tokens}, nil
}
