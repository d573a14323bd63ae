package driven

import (
	"time"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// RecognitionMetrics records recognition activity.
type RecognitionMetrics interface {
	// RequestDispatched is called when a request is sent to the recognizer.
	RequestDispatched(units int)

	// RequestCompleted is called once per request with how it ended.
	RequestCompleted(outcome domain.RecognitionOutcome, elapsed time.Duration)

	// NodesAssigned reports the node count after a successful parse.
	NodesAssigned(recognized, synthetic int)
}
