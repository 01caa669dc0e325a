// Package narrative turns forecast figures into an explanatory text written by a
// language model.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// UnavailableText replaces the narrative when the model cannot produce one.
const UnavailableText = "A análise textual não pôde ser gerada."

// ErrUnavailable is returned alongside UnavailableText when generation fails.
var ErrUnavailable = errors.New("narrative unavailable")

// Completer sends a prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator builds the prompt and asks the completer for the narrative.
type Generator struct {
	completer Completer
}

// NewGenerator returns a Generator backed by c.
func NewGenerator(c Completer) *Generator {
	return &Generator{completer: c}
}

// Generate returns the model's narrative. On any failure it returns
// UnavailableText and an error wrapping ErrUnavailable; it never returns
// an empty string.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	log := logger.FromContext(ctx)

	prompt, err := BuildPrompt(in)
	if err != nil {
		return UnavailableText, fmt.Errorf("Generate: %w: %v", ErrUnavailable, err)
	}
	if g == nil || g.completer == nil {
		return UnavailableText, fmt.Errorf("Generate: %w: no language model configured", ErrUnavailable)
	}

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Narrative generation failed")
		return UnavailableText, fmt.Errorf("Generate: %w: %v", ErrUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn().Msg("Language model returned an empty narrative")
		return UnavailableText, fmt.Errorf("Generate: %w: empty response", ErrUnavailable)
	}

	log.Debug().Int("chars", len(text)).Msg("Narrative generated")
	return text, nil
}
