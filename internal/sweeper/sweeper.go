package sweeper

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// DefaultIdleTTL closes sessions that have not reported an event for this long
const DefaultIdleTTL = 30 * time.Minute

// Sweeper closes monitoring sessions that have gone idle past their TTL
type Sweeper struct {
	sessions *registry.Registry
	ttl      time.Duration
	cron     *cron.Cron
}

// New creates a sweeper over the given registry. A non-positive ttl falls
// back to DefaultIdleTTL.
func New(sessions *registry.Registry, ttl time.Duration) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}

	return &Sweeper{
		sessions: sessions,
		ttl:      ttl,
		cron:     cron.New(),
	}
}

// Start begins the background sweep schedule
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.Sweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop gracefully stops the sweeper
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep closes every active session whose last event is older than the TTL
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)

	for _, session := range s.sessions.ListActive() {
		if session.LastEventAt.After(cutoff) {
			continue
		}

		if err := s.sessions.Close(session.SessionID); err != nil {
			log.Printf("[SWEEPER]: Failed to close session %s: %v", session.SessionID, err)
			continue
		}
		log.Printf("[SWEEPER]: Closed idle session %s", session.SessionID)
	}
}
