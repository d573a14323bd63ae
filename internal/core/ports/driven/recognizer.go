package driven

import (
	"context"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Recognizer turns serialized ink into a LaTeX expression and terminal nodes.
//
// Recognize blocks until the recognizer answers, fails or ctx is done. The
// engine always calls it from a worker goroutine, never from the owner.
type Recognizer interface {
	Recognize(ctx context.Context, req domain.RecognitionRequest) (domain.RecognitionResult, error)
}
