// Package assign deterministically assigns trials to feedback conditions,
// balanced within each passage category.
package assign

import (
	"hash/fnv"
	"math/rand/v2"

	"bloomlab/internal/catalog"
)

// Condition controls whether the generated suggestion builds on or diverges
// from the participant's original question.
type Condition string

const (
	ConditionReinforcing Condition = "reinforcing"
	ConditionDivergent   Condition = "divergent"
)

// Seed derives a 32-bit seed from a participant id. The same id always
// yields the same seed, so assignments are reproducible for debugging.
func Seed(participantID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(participantID))
	return h.Sum32()
}

// newRand returns a generator seeded from the participant id. A fresh local
// instance per call keeps assignment from touching any shared random state.
func newRand(participantID string) *rand.Rand {
	seed := uint64(Seed(participantID))
	return rand.New(rand.NewPCG(seed, seed))
}

// Assign maps each passage index to a condition. Within every category the
// two condition counts differ by at most one; an odd leftover passage gets a
// uniformly random condition. Calls with the same participant id and passage
// ordering produce identical maps.
func Assign(participantID string, passages []catalog.Passage) map[int]Condition {
	rng := newRand(participantID)

	byCategory := make(map[catalog.Category][]int)
	for _, p := range passages {
		byCategory[p.Category] = append(byCategory[p.Category], p.Index)
	}

	mapping := make(map[int]Condition, len(passages))

	// Iterate categories in fixed order; map iteration would break determinism.
	for _, cat := range catalog.Categories {
		indices := byCategory[cat]
		if len(indices) == 0 {
			continue
		}
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		half := len(indices) / 2
		for _, idx := range indices[:half] {
			mapping[idx] = ConditionReinforcing
		}
		for _, idx := range indices[half : 2*half] {
			mapping[idx] = ConditionDivergent
		}
		if len(indices)%2 == 1 {
			leftover := indices[len(indices)-1]
			if rng.IntN(2) == 0 {
				mapping[leftover] = ConditionReinforcing
			} else {
				mapping[leftover] = ConditionDivergent
			}
		}
	}

	return mapping
}

// AssignPractice maps the two practice trial ordinals to conditions, one of
// each, in participant-seeded order.
func AssignPractice(participantID string) map[int]Condition {
	rng := newRand(participantID)

	conditions := []Condition{ConditionReinforcing, ConditionDivergent}
	rng.Shuffle(len(conditions), func(i, j int) {
		conditions[i], conditions[j] = conditions[j], conditions[i]
	})

	return map[int]Condition{
		0: conditions[0],
		1: conditions[1],
	}
}
