package cky

import "time"

// Stats summarizes one Parse call, matching the counters the original
// tool reports per level (§6).
type Stats struct {
	Length       int
	Time         time.Duration
	ItemsEntered int
	ItemsPruned  int
}
