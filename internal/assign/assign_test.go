package assign

import (
	"testing"

	"bloomlab/internal/catalog"
)

func mainPool(t *testing.T) []catalog.Passage {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c.PassagesFor(catalog.PoolMain)
}

func TestAssignDeterministic(t *testing.T) {
	passages := mainPool(t)

	for _, id := range []string{"pilot1", "pilot2", "p-037", ""} {
		a := Assign(id, passages)
		b := Assign(id, passages)
		if len(a) != len(passages) {
			t.Fatalf("id %q: assigned %d of %d passages", id, len(a), len(passages))
		}
		for idx, cond := range a {
			if b[idx] != cond {
				t.Errorf("id %q: index %d assigned %q then %q", id, idx, cond, b[idx])
			}
		}
	}
}

func TestAssignBalancedPerCategory(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	passages := c.PassagesFor(catalog.PoolMain)

	for _, id := range []string{"pilot1", "alpha", "zz-99"} {
		mapping := Assign(id, passages)

		counts := map[catalog.Category]map[Condition]int{}
		for _, p := range passages {
			if counts[p.Category] == nil {
				counts[p.Category] = map[Condition]int{}
			}
			counts[p.Category][mapping[p.Index]]++
		}

		for cat, byCond := range counts {
			r := byCond[ConditionReinforcing]
			d := byCond[ConditionDivergent]
			diff := r - d
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				t.Errorf("id %q category %q: reinforcing=%d divergent=%d", id, cat, r, d)
			}
		}
	}
}

func TestAssignDifferentIDsDiffer(t *testing.T) {
	passages := mainPool(t)

	a := Assign("pilot1", passages)
	b := Assign("pilot2", passages)

	same := true
	for idx, cond := range a {
		if b[idx] != cond {
			same = false
			break
		}
	}
	if same {
		t.Error("pilot1 and pilot2 received identical assignments; seed derivation looks broken")
	}
}

func TestAssignPractice(t *testing.T) {
	mapping := AssignPractice("pilot1")

	if len(mapping) != 2 {
		t.Fatalf("expected 2 practice assignments, got %d", len(mapping))
	}
	if mapping[0] == mapping[1] {
		t.Errorf("both practice trials assigned %q; expected one of each", mapping[0])
	}

	again := AssignPractice("pilot1")
	if again[0] != mapping[0] || again[1] != mapping[1] {
		t.Error("practice assignment is not deterministic for a fixed participant id")
	}
}

func TestSeedStable(t *testing.T) {
	if Seed("pilot1") != Seed("pilot1") {
		t.Error("seed is not stable for identical ids")
	}
	if Seed("pilot1") == Seed("pilot2") {
		t.Error("distinct ids produced identical seeds")
	}
}
