package llm

import "context"

// Document is one file forwarded opaquely to the model.
type Document struct {
	Name     string
	MimeType string
	Data     []byte
}

// GenerateRequest is a single non-streaming prompt plus attached document.
type GenerateRequest struct {
	Prompt   string
	Document Document
}

// Generator is the interface our pipeline depends on. It returns the model's
// free-text answer untouched; recovery and validation happen downstream.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
