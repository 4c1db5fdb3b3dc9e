package app

import "context"

// Uploader sends a local file to the media host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// SymptomService turns a free-text symptom list into a doctor recommendation.
type SymptomService interface {
	Recommend(ctx context.Context, symptoms string) (string, error)
}
