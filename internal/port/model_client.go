package port

import "context"

// GenerateInput carries one prompt and an optional binary attachment.
type GenerateInput struct {
	Prompt     string
	Attachment []byte
	MimeType   string
	// JSONMode asks providers that support it to constrain output to JSON.
	JSONMode bool
}

// GenerateOutput is the raw text a model returned.
type GenerateOutput struct {
	Text  string
	Model string
}

// ModelClient abstracts a single generative-model call.
type ModelClient interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
