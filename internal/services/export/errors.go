package export

import "errors"

// Export-related errors
var (
	ErrNoLeads         = errors.New("no leads match the selected filters")
	ErrInvalidDateMode = errors.New("date filter must be one of all, last7, last30, thisMonth, range")
	ErrInvalidRange    = errors.New("date range needs a start and an end, with start not after end")
	ErrInvalidField    = errors.New("unknown export field")
)
