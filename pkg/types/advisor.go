package types

// AdvisorTurn is one row of the advisor conversation log. The log is
// append-only; Reset truncates it to the header.
type AdvisorTurn struct {
	Handle    Handle `json:"handle"`
	Timestamp string `json:"timestamp"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// AdvisorTurnFromRow hydrates a loaded row into an AdvisorTurn.
func AdvisorTurnFromRow(r Row) AdvisorTurn {
	return AdvisorTurn{
		Handle:    r.Handle,
		Timestamp: r.Cell("timestamp"),
		Question:  r.Cell("question"),
		Answer:    r.Cell("answer"),
	}
}

// Collection returns the advisor collection name.
func (a AdvisorTurn) Collection() string { return AdvisorCollection }

// Values returns the turn's cells in append order.
func (a AdvisorTurn) Values() []string {
	return []string{a.Timestamp, a.Question, a.Answer}
}
