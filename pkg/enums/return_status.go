package enums

// ReturnStatus describes the lifecycle of a return request. Unlike order
// statuses this is an open set: carrier status strings reported upstream are
// adopted verbatim, so only the well-known values get constants.
type ReturnStatus string

const (
	ReturnStatusPending        ReturnStatus = "pending"
	ReturnStatusInProgress     ReturnStatus = "in_progress"
	ReturnStatusLabelGenerated ReturnStatus = "label_generated"
)

// PollableReturnStatuses are the statuses the sweep actively queries upstream for.
func PollableReturnStatuses() []ReturnStatus {
	return []ReturnStatus{ReturnStatusPending, ReturnStatusInProgress}
}

// IsTerminal reports whether the poll sweep should stop querying this status.
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusLabelGenerated
}
