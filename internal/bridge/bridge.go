// Package bridge drives the live change-propagation pipeline: seed the
// collector with current values, register one subscription per entity
// class, and forward every subsequent state change as one line-protocol
// record.
package bridge

import (
	"context"
	"sort"
	"time"

	"codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/hub"
	"codeberg.org/mutker/miosbridge/internal/journal"
	"codeberg.org/mutker/miosbridge/internal/logger"
	"codeberg.org/mutker/miosbridge/internal/metric"
	"codeberg.org/mutker/miosbridge/internal/protocol"
	"codeberg.org/mutker/miosbridge/internal/transport"
)

type Service struct {
	hostPrefix string
	enum       hub.Enumerator
	sub        hub.Subscriber
	channel    transport.Channel
	journal    journal.Collector
}

func New(hostPrefix string, enum hub.Enumerator, sub hub.Subscriber, channel transport.Channel, jrnl journal.Collector) *Service {
	return &Service{
		hostPrefix: hostPrefix,
		enum:       enum,
		sub:        sub,
		channel:    channel,
		journal:    jrnl,
	}
}

// Start enumerates the entity population, seeds the transport with the
// current value of every metric, and registers exactly one change
// subscription per distinct class observed. It returns the enumeration
// so the caller can reuse it (e.g. to prime a polling subscriber).
func (s *Service) Start(ctx context.Context) ([]hub.Entity, error) {
	errFactory := errors.New()

	entities, err := s.enum.Enumerate(ctx)
	if err != nil {
		return nil, errFactory.Wrap(ErrEnumerate, err)
	}

	if err := s.seed(ctx, entities); err != nil {
		return nil, err
	}

	classes := distinctClasses(entities)
	for _, class := range classes {
		if err := s.sub.Subscribe(class, s.handleChange); err != nil {
			return nil, errFactory.Wrap(ErrSubscribeFailed, err).WithData(class)
		}
	}

	logger.Info().
		Int("entities", len(entities)).
		Int("classes", len(classes)).
		Msg("Bridge started")

	return entities, nil
}

func (s *Service) seed(ctx context.Context, entities []hub.Entity) error {
	errFactory := errors.New()

	for _, entity := range entities {
		for _, state := range entity.States {
			if err := s.forward(ctx, entity.ID, state.Class, state.Attribute, state.Value, state.Observed); err != nil {
				return errFactory.Wrap(ErrSeedFailed, err)
			}
		}
	}

	return nil
}

// OnChange forwards one state mutation. Only the post-change value is
// telemetered: events without a new value are dropped, and nothing is
// cached locally.
func (s *Service) OnChange(event hub.ChangeEvent) error {
	if event.NewValue == nil {
		logger.Debug().
			Int("entity", event.EntityID).
			Str("class", event.Class).
			Str("attribute", event.Attribute).
			Msg("Dropping change without new value")
		return nil
	}

	return s.forward(context.Background(), event.EntityID, event.Class, event.Attribute, *event.NewValue, time.Now())
}

// handleChange adapts OnChange to the subscription callback shape; the
// host gives us nowhere to return an error, so it is logged here.
func (s *Service) handleChange(event hub.ChangeEvent) {
	if err := s.OnChange(event); err != nil {
		logger.Error().
			Err(err).
			Int("entity", event.EntityID).
			Str("class", event.Class).
			Str("attribute", event.Attribute).
			Msg("Failed to forward state change")
	}
}

func (s *Service) forward(ctx context.Context, entityID int, class, attribute, value string, observed time.Time) error {
	errFactory := errors.New()

	record := protocol.Encode(s.hostPrefix, entityID, class, attribute, value, observed)
	if err := s.channel.Send(record); err != nil {
		return errFactory.Wrap(ErrForwardFailed, err)
	}

	if err := s.journal.Record(ctx, &journal.Entry{
		SentAt: observed,
		Host:   protocol.HostName(s.hostPrefix, entityID),
		Key:    metric.BuildKey(class, attribute),
		Value:  value,
	}); err != nil {
		// A journal failure must not stall the pipeline
		logger.Warn().Err(err).Msg("Failed to journal record")
	}

	return nil
}

func distinctClasses(entities []hub.Entity) []string {
	seen := make(map[string]struct{})
	for _, entity := range entities {
		for _, state := range entity.States {
			seen[state.Class] = struct{}{}
		}
	}

	classes := make([]string, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	return classes
}
