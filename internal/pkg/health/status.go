package health

import (
	"sync"
	"time"
)

// Status tracks run progress for the /status endpoint.
type Status struct {
	mu sync.RWMutex

	startedAt       time.Time
	cycles          int
	category        string
	region          string
	regionsDone     int
	regionsSkipped  int
	fixturesSeen    int
	payloadsSent    int
	payloadsFailed  int
	lastDispatchErr string
}

func NewStatus() *Status {
	return &Status{startedAt: time.Now()}
}

// Snapshot is the JSON shape served by /status.
type Snapshot struct {
	UptimeSeconds   int64  `json:"uptime_seconds"`
	Cycles          int    `json:"cycles"`
	Category        string `json:"category"`
	Region          string `json:"region"`
	RegionsDone     int    `json:"regions_done"`
	RegionsSkipped  int    `json:"regions_skipped"`
	FixturesSeen    int    `json:"fixtures_seen"`
	PayloadsSent    int    `json:"payloads_sent"`
	PayloadsFailed  int    `json:"payloads_failed"`
	LastDispatchErr string `json:"last_dispatch_error,omitempty"`
}

func (s *Status) StartCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles++
}

func (s *Status) SetProgress(category, region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.region = region
}

func (s *Status) RegionDone(fixtures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regionsDone++
	s.fixturesSeen += fixtures
}

func (s *Status) RegionSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regionsSkipped++
}

func (s *Status) PayloadSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloadsSent++
}

func (s *Status) PayloadFailed(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloadsFailed++
	s.lastDispatchErr = reason
}

func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		UptimeSeconds:   int64(time.Since(s.startedAt).Seconds()),
		Cycles:          s.cycles,
		Category:        s.category,
		Region:          s.region,
		RegionsDone:     s.regionsDone,
		RegionsSkipped:  s.regionsSkipped,
		FixturesSeen:    s.fixturesSeen,
		PayloadsSent:    s.payloadsSent,
		PayloadsFailed:  s.payloadsFailed,
		LastDispatchErr: s.lastDispatchErr,
	}
}
