package poll

import "time"

// ResumePolicy selects what a session does when the visibility signal
// turns back on while the session is dormant.
type ResumePolicy string

const (
	// ResumeRefetch fetches immediately and starts a new chain.
	ResumeRefetch ResumePolicy = "refetch"
	// ResumeSchedule arms a timer for one interval without fetching.
	ResumeSchedule ResumePolicy = "schedule"
)

// Valid reports whether p is a known policy.
func (p ResumePolicy) Valid() bool {
	return p == ResumeRefetch || p == ResumeSchedule
}

// Config holds the per-session polling policy.
type Config struct {
	// Interval between the settle of one fetch and the start of the next.
	Interval time.Duration
	// Enabled gates both the initial fetch and re-arming.
	Enabled bool
	// Resume is applied when visibility returns.
	Resume ResumePolicy
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Second,
		Enabled:  true,
		Resume:   ResumeRefetch,
	}
}
