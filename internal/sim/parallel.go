package sim

import (
	"context"
	"fmt"
	"sync"
)

// Ensemble runs independent simulators concurrently. Each member owns its
// engine, so no state is shared between runs.
type Ensemble struct {
	members []*Simulator
}

func NewEnsemble(members ...*Simulator) *Ensemble {
	return &Ensemble{members: members}
}

func (e *Ensemble) Add(s *Simulator) { e.members = append(e.members, s) }

func (e *Ensemble) Len() int { return len(e.members) }

// Run runs every member with cfg and returns results in member order.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	seen := make(map[any]bool, len(e.members))
	for i, m := range e.members {
		if seen[m.engine] {
			return nil, fmt.Errorf("ensemble member %d shares an engine with another member", i)
		}
		seen[m.engine] = true
	}

	results := make([]*Result, len(e.members))
	errs := make([]error, len(e.members))

	var wg sync.WaitGroup
	for i, m := range e.members {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, m)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ensemble member %d: %w", i, err)
		}
	}

	return results, nil
}
