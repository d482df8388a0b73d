package entity

import "time"

// Flow is a named automation defined on the hub, triggerable by id.
type Flow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FlowCatalog is the cached snapshot of the hub's flow list. Snapshots
// are replaced wholesale on refresh, never mutated in place.
type FlowCatalog struct {
	Flows     []Flow    `json:"flows"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (c *FlowCatalog) IsStale(maxAge time.Duration) bool {
	if c == nil {
		return true
	}
	return time.Since(c.FetchedAt) > maxAge
}
