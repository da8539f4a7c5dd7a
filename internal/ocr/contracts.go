package ocr

import "context"

// Result is what a recognizer returns for one document.
type Result struct {
	Text       string
	Confidence float32 // 0..1
	Language   string
}

// Recognizer turns raw image/PDF bytes into text plus a confidence scalar.
// Implementations must not panic on malformed input; a recognizer that
// cannot read the bytes returns an error, which the acquirer treats as
// confidence 0.0 and empty text.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte) (Result, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, data []byte) (Result, error)

func (f RecognizerFunc) Recognize(ctx context.Context, data []byte) (Result, error) {
	return f(ctx, data)
}
