package repository

// ComplaintFilter narrows the register listing. Zero values mean "all".
// Limit <= 0 means no cap (used by exports).
type ComplaintFilter struct {
	Status   string
	Priority string
	Channel  string
	Assigned string // mine | all | unassigned
	Search   string // matches code, summary, customer name (case-insensitive)
	Limit    int
}
