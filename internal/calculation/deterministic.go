package calculation

import "time"

// Clock returns the current time. Runners take one so tests can pin execution times.
type Clock func() time.Time

// SeedSource supplies a run seed when RunConfig.Seed is zero.
type SeedSource func() int64

func defaultSeed() int64 { return time.Now().UnixNano() }
