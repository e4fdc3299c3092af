package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shipcal/internal/model"
	"shipcal/internal/shipcal"
	"shipcal/internal/simulator"
)

// DefaultLimit is the number of runs kept when New is given no limit.
const DefaultLimit = 64

// Entry summarises a stored run.
type Entry struct {
	RunID         uuid.UUID      `json:"run_id"`
	Topology      model.Topology `json:"topology"`
	Stored        time.Time      `json:"stored"`
	ProductionKWh float64        `json:"production_kwh"`
	SolarFraction float64        `json:"solar_fraction"`
	Degenerate    bool           `json:"degenerate"`
}

// Store holds simulation results in memory, indexed by run ID. The oldest
// run is evicted once limit is reached.
type Store struct {
	mu      sync.RWMutex
	limit   int
	runs    map[uuid.UUID]*shipcal.SimulationResult
	entries []Entry // oldest first
}

func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		runs:  make(map[uuid.UUID]*shipcal.SimulationResult),
	}
}

// Put stores res, replacing any run with the same ID.
func (s *Store) Put(res *shipcal.SimulationResult) {
	if res == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[res.RunID]; ok {
		s.removeEntry(res.RunID)
	}
	s.runs[res.RunID] = res
	s.entries = append(s.entries, Entry{
		RunID:         res.RunID,
		Topology:      res.Design.Topology,
		Stored:        time.Now(),
		ProductionKWh: res.Summary.ProductionMaxKWh,
		SolarFraction: res.Summary.SolarFractionLim,
		Degenerate:    res.Summary.Degenerate(),
	})
	for len(s.entries) > s.limit {
		delete(s.runs, s.entries[0].RunID)
		s.entries = s.entries[1:]
	}
}

func (s *Store) removeEntry(id uuid.UUID) {
	for i, e := range s.entries {
		if e.RunID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Get returns a stored run.
func (s *Store) Get(id uuid.UUID) (*shipcal.SimulationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.runs[id]
	return res, ok
}

// List returns all stored runs, newest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(out)-1-i] = e
	}
	return out
}

// Len returns the number of stored runs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// TimestepsInRange returns the outputs of a run with hour of year between
// from (inclusive) and to (exclusive).
func (s *Store) TimestepsInRange(id uuid.UUID, from, to int) []simulator.TimestepOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.runs[id]
	if !ok || len(res.Timesteps) == 0 {
		return nil
	}
	all := res.Timesteps

	startIdx := sort.Search(len(all), func(i int) bool {
		return all[i].HourOfYear >= from
	})
	endIdx := sort.Search(len(all), func(i int) bool {
		return all[i].HourOfYear >= to
	})
	if startIdx >= endIdx {
		return nil
	}

	result := make([]simulator.TimestepOutput, endIdx-startIdx)
	copy(result, all[startIdx:endIdx])
	return result
}

// TimestepAt returns the output of a run for one hour of the year.
func (s *Store) TimestepAt(id uuid.UUID, hourOfYear int) (simulator.TimestepOutput, bool) {
	got := s.TimestepsInRange(id, hourOfYear, hourOfYear+1)
	if len(got) == 0 {
		return simulator.TimestepOutput{}, false
	}
	return got[0], true
}
