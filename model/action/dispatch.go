package action

// DispatchJob is the envelope carried by the dispatch queue. It
// deliberately holds nothing but the record id: the worker re-reads the
// record and derives the tenant scope from it rather than trusting queue
// metadata.
type DispatchJob struct {
	ActionID string `json:"actionId"`
}
