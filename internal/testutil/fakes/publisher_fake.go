package fakes

import (
	"context"
	"errors"
	"sync"

	"github.com/dhima/dbutils/internal/models"
)

// FakePublisher captures published events and can simulate failures.
type FakePublisher struct {
	mu        sync.Mutex
	Events    []models.MutationEvent
	FailNext  bool
	FailError error
}

func (p *FakePublisher) Publish(_ context.Context, e models.MutationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Events = append(p.Events, e)
	return nil
}

// Published returns a copy of the captured events.
func (p *FakePublisher) Published() []models.MutationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.MutationEvent(nil), p.Events...)
}
