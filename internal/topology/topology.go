// Package topology reconstructs the entity/metric topology from a full
// state enumeration. Snapshots are built fresh per request, never
// cached, and consumed only by the export renderers.
package topology

import (
	"sort"

	"codeberg.org/mutker/miosbridge/internal/hub"
	"codeberg.org/mutker/miosbridge/internal/metric"
)

// Pair identifies one metric stream
type Pair struct {
	Class     string
	Attribute string
}

// Metric is one classified (class, attribute) pair in a snapshot
type Metric struct {
	Pair       Pair
	Key        string
	Descriptor metric.Descriptor
}

// EntityInfo associates one entity with the classes it exposes
type EntityInfo struct {
	ID          int
	Description string
	Classes     []string
}

// Snapshot is the immutable result of one build pass: every distinct
// (class, attribute) pair resolved to a descriptor, and per-entity
// class sets. Metrics and class lists are sorted so renders of the
// same snapshot are byte-identical.
type Snapshot struct {
	metrics  []Metric
	byPair   map[Pair]metric.Descriptor
	entities []EntityInfo
}

// Build scans the full entity population and classifies every observed
// (class, attribute) pair. Inference is monotonic toward text: once any
// sample for a pair fails numeric parse, the pair stays text for the
// rest of the pass. Registry overrides are applied after the scan and
// replace whatever was inferred.
func Build(entities []hub.Entity, registry *metric.Registry) *Snapshot {
	classifier := metric.NewClassifier(metric.NewRegistry(nil))

	inferred := make(map[Pair]metric.Descriptor)
	info := make([]EntityInfo, 0, len(entities))

	for _, entity := range entities {
		classes := make(map[string]struct{})
		for _, state := range entity.States {
			classes[state.Class] = struct{}{}

			pair := Pair{Class: state.Class, Attribute: state.Attribute}
			desc := classifier.Classify(state.Class, state.Attribute, state.Value)
			if existing, ok := inferred[pair]; ok {
				if existing.ValueKind == metric.KindText {
					continue
				}
			}
			inferred[pair] = desc
		}

		info = append(info, EntityInfo{
			ID:          entity.ID,
			Description: entity.Description,
			Classes:     sortedKeys(classes),
		})
	}

	// Registry entries are authoritative over anything inferred above
	for pair := range inferred {
		if desc, ok := registry.Lookup(pair.Class, pair.Attribute); ok {
			inferred[pair] = desc
		}
	}

	metrics := make([]Metric, 0, len(inferred))
	for pair, desc := range inferred {
		metrics = append(metrics, Metric{
			Pair:       pair,
			Key:        metric.BuildKey(pair.Class, pair.Attribute),
			Descriptor: desc,
		})
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Pair.Class != metrics[j].Pair.Class {
			return metrics[i].Pair.Class < metrics[j].Pair.Class
		}
		return metrics[i].Pair.Attribute < metrics[j].Pair.Attribute
	})

	sort.Slice(info, func(i, j int) bool { return info[i].ID < info[j].ID })

	return &Snapshot{
		metrics:  metrics,
		byPair:   inferred,
		entities: info,
	}
}

// Metrics returns every classified pair, ordered by class then attribute
func (s *Snapshot) Metrics() []Metric {
	return s.metrics
}

// MetricsForClass returns the classified pairs of one class
func (s *Snapshot) MetricsForClass(class string) []Metric {
	var out []Metric
	for _, m := range s.metrics {
		if m.Pair.Class == class {
			out = append(out, m)
		}
	}

	return out
}

// Classes returns the distinct classes in the snapshot, sorted
func (s *Snapshot) Classes() []string {
	seen := make(map[string]struct{})
	for _, m := range s.metrics {
		seen[m.Pair.Class] = struct{}{}
	}

	return sortedKeys(seen)
}

// Entities returns per-entity class associations, ordered by ID
func (s *Snapshot) Entities() []EntityInfo {
	return s.entities
}

// Lookup returns the snapshot's descriptor for a pair
func (s *Snapshot) Lookup(class, attribute string) (metric.Descriptor, bool) {
	desc, ok := s.byPair[Pair{Class: class, Attribute: attribute}]
	return desc, ok
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
