package score

import (
	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// Auto-approval thresholds. A trusted origin lowers the bar; it never
// removes it.
const (
	autoApproveThreshold    float32 = 0.9
	trustedApproveThreshold float32 = 0.7
)

// Decide is the one-shot approval gate. Everything after this decision
// (approve/reject/edit) belongs to the review UI.
func Decide(confidence float32, policy event.Policy, ec event.Context) constants.Decision {
	if !policy.AutoApproveEnabled {
		return constants.DecisionPendingReview
	}
	if confidence >= autoApproveThreshold {
		return constants.DecisionAutoApprove
	}
	if ec.TrustedSender && confidence >= trustedApproveThreshold {
		return constants.DecisionAutoApprove
	}
	return constants.DecisionPendingReview
}
