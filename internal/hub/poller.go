package hub

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/logger"
)

// Poller implements Subscriber on top of an Enumerator by diffing
// consecutive enumerations and synthesizing change events. Hubs with a
// push notification API can replace it without touching the pipeline.
type Poller struct {
	enum     Enumerator
	interval time.Duration

	mu     sync.RWMutex
	subs   map[string][]ChangeFunc
	last   map[stateKey]string
	primed bool
}

type stateKey struct {
	entityID  int
	class     string
	attribute string
}

func NewPoller(enum Enumerator, interval time.Duration) *Poller {
	return &Poller{
		enum:     enum,
		interval: interval,
		subs:     make(map[string][]ChangeFunc),
	}
}

// Subscribe registers fn for every mutation on the given class
func (p *Poller) Subscribe(class string, fn ChangeFunc) error {
	errFactory := errors.New()

	if class == "" {
		return errFactory.New(ErrEmptyClass)
	}
	if fn == nil {
		return errFactory.New(ErrNilHandler)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[class] = append(p.subs[class], fn)

	return nil
}

// Prime records the given enumeration as the baseline so the first poll
// does not replay values the caller already forwarded.
func (p *Poller) Prime(entities []Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = flatten(entities)
	p.primed = true
}

// Run polls the hub until the context is cancelled. The first
// enumeration only establishes the baseline unless Prime was called.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				logger.Warn().Err(err).Msg("Hub poll failed")
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	entities, err := p.enum.Enumerate(ctx)
	if err != nil {
		return err
	}

	current := flatten(entities)

	p.mu.Lock()
	if !p.primed {
		p.last = current
		p.primed = true
		p.mu.Unlock()
		return nil
	}
	previous := p.last
	p.last = current
	p.mu.Unlock()

	p.dispatchDiff(previous, current)

	return nil
}

func (p *Poller) dispatchDiff(previous, current map[stateKey]string) {
	for key, value := range current {
		prev, seen := previous[key]
		if seen && prev == value {
			continue
		}

		newValue := value
		event := ChangeEvent{
			EntityID:  key.entityID,
			Class:     key.class,
			Attribute: key.attribute,
			NewValue:  &newValue,
		}
		if seen {
			oldValue := prev
			event.OldValue = &oldValue
		}
		p.dispatch(event)
	}

	// Dropped attributes are reported with an absent new value
	for key, prev := range previous {
		if _, ok := current[key]; ok {
			continue
		}
		oldValue := prev
		p.dispatch(ChangeEvent{
			EntityID:  key.entityID,
			Class:     key.class,
			Attribute: key.attribute,
			OldValue:  &oldValue,
		})
	}
}

func (p *Poller) dispatch(event ChangeEvent) {
	p.mu.RLock()
	handlers := p.subs[event.Class]
	p.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}

func flatten(entities []Entity) map[stateKey]string {
	flat := make(map[stateKey]string)
	for _, entity := range entities {
		for _, state := range entity.States {
			flat[stateKey{entity.ID, state.Class, state.Attribute}] = state.Value
		}
	}

	return flat
}
