package entity

import "time"

type Device struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Class        string   `json:"class"`
	Capabilities []string `json:"capabilities"`
	Zone         Zone     `json:"zone"`
}

type Zone struct {
	Name string `json:"name"`
}

// DeviceCatalog groups the hub's device inventory by room name.
type DeviceCatalog struct {
	ByRoom    map[string][]Device `json:"by_room"`
	FetchedAt time.Time           `json:"fetched_at"`
}

func (c *DeviceCatalog) IsStale(maxAge time.Duration) bool {
	if c == nil {
		return true
	}
	return time.Since(c.FetchedAt) > maxAge
}
