package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines        int
	Duration          time.Duration
	Episodes          int
	MaxRolloutMoves   int
	FullPlayouts      int
	TruncatedPlayouts int
	RolloutMoves      int
}

type MoveMetric struct {
	Step   int
	Player string // Color to move
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string
	Score          float64 // Black's Chinese score minus komi
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	IllegalMoves   int
}

type Collector interface {
	Start(goroutines, maxRolloutMoves int)
	AddEpisode()
	AddFullPlayout(moves int)
	AddTruncatedPlayout(moves int)
	Complete() SearchMetric
}

type collector struct {
	goroutines        int
	maxRolloutMoves   int
	startTime         time.Time
	episodes          atomic.Int32
	fullPlayouts      atomic.Int32
	truncatedPlayouts atomic.Int32
	rolloutMoves      atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxRolloutMoves int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxRolloutMoves = maxRolloutMoves
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.truncatedPlayouts.Store(0)
	m.rolloutMoves.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout(moves int) {
	m.fullPlayouts.Add(1)
	m.rolloutMoves.Add(int64(moves))
}

func (m *collector) AddTruncatedPlayout(moves int) {
	m.truncatedPlayouts.Add(1)
	m.rolloutMoves.Add(int64(moves))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:        m.goroutines,
		Duration:          time.Since(m.startTime),
		Episodes:          int(m.episodes.Load()),
		MaxRolloutMoves:   m.maxRolloutMoves,
		FullPlayouts:      int(m.fullPlayouts.Load()),
		TruncatedPlayouts: int(m.truncatedPlayouts.Load()),
		RolloutMoves:      int(m.rolloutMoves.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxRolloutMoves int) {}
func (m *dummyCollector) AddEpisode()                          {}
func (m *dummyCollector) AddFullPlayout(moves int)             {}
func (m *dummyCollector) AddTruncatedPlayout(moves int)        {}
func (m *dummyCollector) Complete() SearchMetric               { return SearchMetric{} }
