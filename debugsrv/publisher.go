package debugsrv

import (
	"sync"

	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/scene"
)

// Snapshot is the scene state served over HTTP.
type Snapshot struct {
	Session  string                 `json:"session"`
	Tick     uint64                 `json:"tick"`
	Elapsed  float64                `json:"elapsed"`
	Entities []scene.EntitySnapshot `json:"entities"`
}

// StatsPayload summarizes the scene and the driver.
type StatsPayload struct {
	Session       string         `json:"session"`
	EntityCount   int            `json:"entityCount"`
	ByKind        map[string]int `json:"byKind"`
	ShadowCasters int            `json:"shadowCasters"`
	Parameterized int            `json:"parameterized"`
	Attachments   int            `json:"attachments"`
	Driver        *DriverPayload `json:"driver,omitempty"`
}

// DriverPayload is the driver section of /stats.
type DriverPayload struct {
	State   string          `json:"state"`
	Ticks   uint64          `json:"ticks"`
	Systems []SystemPayload `json:"systems"`
}

// SystemPayload is one system row of /stats.
type SystemPayload struct {
	Name  string  `json:"name"`
	Runs  int64   `json:"runs"`
	AvgMs float64 `json:"avgMs"`
	MaxMs float64 `json:"maxMs"`
}

// StatsSource reports driver statistics.
type StatsSource interface {
	Stats() *anim.Stats
}

// Publisher holds the latest snapshot. It is written on the tick thread and
// read by HTTP handlers.
type Publisher struct {
	session string
	driver  StatsSource
	every   uint64

	mu       sync.RWMutex
	snapshot Snapshot
	stats    StatsPayload
}

// NewPublisher publishes every n ticks; n < 1 publishes every tick.
func NewPublisher(session string, driver StatsSource, n int) *Publisher {
	if n < 1 {
		n = 1
	}
	return &Publisher{
		session:  session,
		driver:   driver,
		every:    uint64(n),
		snapshot: Snapshot{Session: session, Entities: []scene.EntitySnapshot{}},
		stats:    StatsPayload{Session: session, ByKind: map[string]int{}},
	}
}

// Execute implements anim.System. The copy is deferred until every other
// system of the tick ran.
func (p *Publisher) Execute(frame *anim.Frame) {
	if frame.Tick%p.every != 0 {
		return
	}
	tick, elapsed, reg := frame.Tick, frame.Elapsed, frame.Scene
	frame.Commands.Defer(func() {
		p.Publish(tick, elapsed, reg)
	})
}

// Publish copies the registry state.
func (p *Publisher) Publish(tick uint64, elapsed float64, reg *scene.Registry) {
	snapshot := Snapshot{
		Session:  p.session,
		Tick:     tick,
		Elapsed:  elapsed,
		Entities: reg.Snapshot(),
	}
	stats := p.collectStats(reg)

	p.mu.Lock()
	p.snapshot = snapshot
	p.stats = stats
	p.mu.Unlock()
}

func (p *Publisher) collectStats(reg *scene.Registry) StatsPayload {
	s := reg.CollectStats()
	out := StatsPayload{
		Session:       p.session,
		EntityCount:   s.EntityCount,
		ByKind:        make(map[string]int, len(s.ByKind)),
		ShadowCasters: s.ShadowCasters,
		Parameterized: s.Parameterized,
		Attachments:   s.Attachments,
	}
	for kind, n := range s.ByKind {
		out.ByKind[kind.String()] = n
	}
	if p.driver != nil {
		d := p.driver.Stats()
		out.Driver = &DriverPayload{State: d.State.String(), Ticks: d.Ticks}
		for _, sys := range d.Systems {
			out.Driver.Systems = append(out.Driver.Systems, SystemPayload{
				Name:  sys.Name,
				Runs:  sys.ExecutionCount,
				AvgMs: float64(sys.AvgDuration.Microseconds()) / 1000,
				MaxMs: float64(sys.MaxDuration.Microseconds()) / 1000,
			})
		}
	}
	return out
}

// Snapshot returns the last published scene.
func (p *Publisher) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Stats returns the last published statistics.
func (p *Publisher) Stats() StatsPayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}
