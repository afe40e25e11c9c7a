package domain

import "time"

// ProviderReport is the structured outcome of one provider stage within a run.
type ProviderReport struct {
	Provider string
	Fetched  int
	Saved    int
	Failed   int
	Err      error
}

// OK reports whether the provider stage completed without a stage-level error.
// Individual item failures are counted in Failed and do not flip OK.
func (p ProviderReport) OK() bool {
	return p.Err == nil
}

// RunReport aggregates provider outcomes for one ingestion run. The run is
// terminal once every provider has been attempted; a failed provider never
// blocks the ones after it.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Providers  []ProviderReport
}

// Saved returns the total number of articles upserted across all providers.
func (r RunReport) Saved() int {
	var n int
	for _, p := range r.Providers {
		n += p.Saved
	}
	return n
}

// Failed returns the total number of items that could not be persisted.
func (r RunReport) Failed() int {
	var n int
	for _, p := range r.Providers {
		n += p.Failed
	}
	return n
}
