// Package imagegen defines the image-generation service used to picture a
// recipe.
package imagegen

import "context"

type Image struct {
	Data     []byte
	MIMEType string
}

// Result is the outcome of one generation request. Images may be empty.
type Result struct {
	TraceID string
	Images  []Image
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}
