package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/logger"
)

// syntheticHeightThreshold splits uncovered strokes into likely minus
// signs (short) and likely radicals (tall).
const syntheticHeightThreshold = 22.0

// Completion is a recognizer answer delivered back on the owner goroutine.
type Completion struct {
	Request domain.RecognitionRequest
	Result  domain.RecognitionResult
	Err     error
}

// Reconciliation is what a completion means for the current ink.
type Reconciliation struct {
	Outcome domain.RecognitionOutcome

	// LaTeX and Nodes are set for OutcomeParsed. Nodes include synthetic
	// nodes for every uncovered position.
	LaTeX string
	Nodes []domain.TerminalNode

	// Invalidated is set for OutcomeScratched.
	Invalidated []int

	// Err is set for OutcomeFailed and OutcomeMalformed.
	Err error
}

// RecognitionCoordinator dispatches effective ink to the recognizer and
// reconciles answers with the ink as it is when they arrive.
//
// It is Idle until Submit and Awaiting until the latest request completes.
// A newer request supersedes older ones; answers are never cancelled, they
// are discarded on arrival when the ink they describe is gone.
type RecognitionCoordinator struct {
	recognizer driven.Recognizer
	dispatcher driven.Dispatcher
	metrics    driven.RecognitionMetrics
	timeout    time.Duration

	pending *domain.RecognitionRequest

	newID func() string
	now   func() time.Time
}

// NewRecognitionCoordinator creates a coordinator posting completions to dispatcher.
// The recognizer and metrics may be nil.
func NewRecognitionCoordinator(
	recognizer driven.Recognizer,
	dispatcher driven.Dispatcher,
	metrics driven.RecognitionMetrics,
) *RecognitionCoordinator {
	return &RecognitionCoordinator{
		recognizer: recognizer,
		dispatcher: dispatcher,
		metrics:    metrics,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// SetRecognizer attaches or detaches the recognizer.
func (c *RecognitionCoordinator) SetRecognizer(recognizer driven.Recognizer) {
	c.recognizer = recognizer
}

// SetMetrics attaches or detaches the metrics recorder.
func (c *RecognitionCoordinator) SetMetrics(metrics driven.RecognitionMetrics) {
	c.metrics = metrics
}

// SetTimeout bounds each recognizer call. Zero means no bound.
func (c *RecognitionCoordinator) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// Available reports whether a recognizer is attached.
func (c *RecognitionCoordinator) Available() bool {
	return c.recognizer != nil
}

// Pending returns the outstanding request, if any.
func (c *RecognitionCoordinator) Pending() (domain.RecognitionRequest, bool) {
	if c.pending == nil {
		return domain.RecognitionRequest{}, false
	}
	return *c.pending, true
}

// Reset returns to Idle. Answers to earlier requests are still delivered
// and still checked against the ink on arrival.
func (c *RecognitionCoordinator) Reset() {
	c.pending = nil
}

// Submit serializes ink and starts a recognizer call on a worker goroutine.
// done runs on the owner goroutine through the dispatcher.
func (c *RecognitionCoordinator) Submit(ctx context.Context, ink []domain.Ink, done func(Completion)) (domain.RecognitionRequest, error) {
	if c.recognizer == nil {
		return domain.RecognitionRequest{}, domain.ErrRecognizerUnavailable
	}
	if c.dispatcher == nil {
		return domain.RecognitionRequest{}, domain.ErrNotImplemented
	}

	serialized := domain.SerializeInk(ink)
	req := domain.RecognitionRequest{
		ID:          c.newID(),
		Ink:         serialized,
		Fingerprint: domain.FingerprintOf(serialized),
		IssuedAt:    c.now(),
	}
	c.pending = &req

	logger.Debug("Recognition %s dispatched: %d units, fingerprint %016x", req.ID, len(serialized), uint64(req.Fingerprint))
	if c.metrics != nil {
		c.metrics.RequestDispatched(len(serialized))
	}

	recognizer, dispatcher, timeout := c.recognizer, c.dispatcher, c.timeout
	go func() {
		callCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := recognizer.Recognize(callCtx, req)
		dispatcher.Post(func() {
			done(Completion{Request: req, Result: result, Err: err})
		})
	}()

	return req, nil
}

// Reconcile decides what a completion means for the current effective ink.
// It must run on the owner goroutine.
func (c *RecognitionCoordinator) Reconcile(completion Completion, ink []domain.Ink) Reconciliation {
	req := completion.Request
	if c.pending != nil && c.pending.ID == req.ID {
		c.pending = nil
	}

	r := c.reconcile(completion, ink)

	elapsed := c.now().Sub(req.IssuedAt)
	switch r.Outcome {
	case domain.OutcomeStale:
		logger.Debug("Recognition %s discarded: ink changed since dispatch", req.ID)
	case domain.OutcomeFailed, domain.OutcomeMalformed:
		logger.Warn("Recognition %s %s after %s: %v", req.ID, r.Outcome, elapsed, r.Err)
	case domain.OutcomeScratched:
		logger.Info("Recognition %s scratched out positions %v", req.ID, r.Invalidated)
	case domain.OutcomeParsed:
		logger.Info("Recognition %s parsed %q in %s (%d nodes)", req.ID, r.LaTeX, elapsed, len(r.Nodes))
	}

	if c.metrics != nil {
		c.metrics.RequestCompleted(r.Outcome, elapsed)
		if r.Outcome == domain.OutcomeParsed {
			synthetic := 0
			for _, n := range r.Nodes {
				if n.Synthetic {
					synthetic++
				}
			}
			c.metrics.NodesAssigned(len(r.Nodes)-synthetic, synthetic)
		}
	}
	return r
}

func (c *RecognitionCoordinator) reconcile(completion Completion, ink []domain.Ink) Reconciliation {
	current := domain.FingerprintOf(domain.SerializeInk(ink))
	if completion.Request.Fingerprint != current {
		return Reconciliation{Outcome: domain.OutcomeStale}
	}

	if completion.Err != nil {
		return Reconciliation{
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("%w: %w", domain.ErrRecognitionFailed, completion.Err),
		}
	}

	result := completion.Result
	if err := validateResult(result, len(ink)); err != nil {
		return Reconciliation{Outcome: domain.OutcomeMalformed, Err: err}
	}

	if len(result.Invalidated) > 0 {
		invalidated := slices.Clone(result.Invalidated)
		slices.Sort(invalidated)
		return Reconciliation{Outcome: domain.OutcomeScratched, Invalidated: slices.Compact(invalidated)}
	}

	return Reconciliation{
		Outcome: domain.OutcomeParsed,
		LaTeX:   result.LaTeX,
		Nodes:   SynthesizeNodes(result.Nodes, ink),
	}
}

func validateResult(result domain.RecognitionResult, size int) error {
	for i, node := range result.Nodes {
		if len(node.Indexes) == 0 {
			return fmt.Errorf("%w: node %d covers no ink", domain.ErrMalformedRecognizerResult, i)
		}
		for _, idx := range node.Indexes {
			if idx < 0 || idx >= size {
				return fmt.Errorf("%w: node %d index %d outside 0..%d", domain.ErrMalformedRecognizerResult, i, idx, size-1)
			}
		}
	}
	for _, idx := range result.Invalidated {
		if idx < 0 || idx >= size {
			return fmt.Errorf("%w: invalidated index %d outside 0..%d", domain.ErrMalformedRecognizerResult, idx, size-1)
		}
	}
	return nil
}

// SynthesizeNodes returns nodes followed by one synthetic node for every
// ink position no node covers, in ascending position order.
//
// Uncovered strokes are almost always a minus sign or a radical the
// recognizer could not place. Short ones offer "-" first, tall ones "√".
func SynthesizeNodes(nodes []domain.TerminalNode, ink []domain.Ink) []domain.TerminalNode {
	covered := make([]bool, len(ink))
	out := make([]domain.TerminalNode, 0, len(nodes))
	for _, n := range nodes {
		for _, idx := range n.Indexes {
			if idx >= 0 && idx < len(ink) {
				covered[idx] = true
			}
		}
		n.Indexes = slices.Clone(n.Indexes)
		slices.Sort(n.Indexes)
		n.Candidates = slices.Clone(n.Candidates)
		out = append(out, n)
	}

	for i, isCovered := range covered {
		if isCovered {
			continue
		}
		candidates := []string{"√", "-"}
		if ink[i].Frame().Height < syntheticHeightThreshold {
			candidates = []string{"-", "√"}
		}
		out = append(out, domain.TerminalNode{
			Indexes:    []int{i},
			Candidates: candidates,
			Synthetic:  true,
		})
	}
	return out
}
