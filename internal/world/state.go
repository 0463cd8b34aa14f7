package world

import "github.com/l1jgo/chimera/internal/core/lifetime"

// Environment holds the grow-room readings drifted by the fixed-step phase.
type Environment struct {
	Temperature float64 // degrees C
	Humidity    float64 // 0..1
}

// State is the cultivation world, owned by the game loop goroutine. Systems
// read and mutate it only from their tick callbacks, so no locks are needed.
type State struct {
	Env   Environment
	Frame uint64

	pool   *lifetime.Pool
	plants map[lifetime.Token]*Plant
}

func NewState() *State {
	return &State{
		Env:    Environment{Temperature: 24.0, Humidity: 0.55},
		pool:   lifetime.NewPool(),
		plants: make(map[lifetime.Token]*Plant),
	}
}

// Pool exposes the lifetime pool so units owned by world objects can bind
// liveness guards to it.
func (s *State) Pool() *lifetime.Pool { return s.pool }

func (s *State) AddPlant() *Plant {
	p := &Plant{
		Token:     s.pool.Acquire(),
		Hydration: 1.0,
		Health:    1.0,
	}
	s.plants[p.Token] = p
	return p
}

// RemovePlant releases the plant's token so anything holding it sees it dead.
func (s *State) RemovePlant(tok lifetime.Token) {
	if _, ok := s.plants[tok]; !ok {
		return
	}
	delete(s.plants, tok)
	s.pool.Release(tok)
}

func (s *State) Plant(tok lifetime.Token) (*Plant, bool) {
	p, ok := s.plants[tok]
	return p, ok
}

func (s *State) AllPlants(fn func(*Plant)) {
	for _, p := range s.plants {
		fn(p)
	}
}

func (s *State) PlantCount() int { return len(s.plants) }
