package moderation

import "context"

// noopExplanation tells the author that no check ran. It is the aiExplanation
// surfaced for published articles when moderation is disabled.
const noopExplanation = "AI content check was not performed."

// NoOp is a moderator that approves everything without calling any provider.
// It is used in development and whenever no moderation API key is configured.
type NoOp struct{}

// NewNoOp creates a new NoOp moderator.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Check always returns a safe verdict.
func (n *NoOp) Check(_ context.Context, _ string) (Verdict, error) {
	return Verdict{Safe: true, Explanation: noopExplanation}, nil
}
