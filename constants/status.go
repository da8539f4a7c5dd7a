package constants

// Kind distinguishes timed events from all-day tasks.
type Kind string

const (
	KindEvent Kind = "event"
	KindTask  Kind = "task"
)

// Source records which extraction branch produced a candidate. The merge
// engine uses it to break ties; the scorer weighs it.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceLLM           Source = "llm"
)

// Decision is the one-shot output of the approval gate. Later status
// transitions (approve/reject/edit) belong to the approval UI, not here.
type Decision string

const (
	DecisionAutoApprove   Decision = "auto_approve"
	DecisionPendingReview Decision = "pending_review"
)

// ReminderMethod values accepted on event reminders.
const (
	ReminderPopup = "popup"
	ReminderEmail = "email"
)
