package models

// MarketSnapshot is one externally observed market in a feed snapshot. The
// reconciler treats absence of a previously seen market key from the snapshot
// as the closure signal; the feed never emits an explicit closed flag.
type MarketSnapshot struct {
	MarketKey   string
	DisplayName string
	EventName   string
	SessionCode string
	Outcomes    []OutcomeSnapshot
}

// OutcomeSnapshot is one selection observed under a snapshot market
type OutcomeSnapshot struct {
	Label string
	Odds  float64
}
