package catalog

import "testing"

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Size() == 0 {
		t.Fatal("catalog is empty")
	}
}

func TestPartition(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every index belongs to exactly one pool, and pool sizes add up.
	counts := map[Pool]int{}
	for _, p := range c.PassagesFor(PoolExcluded) {
		counts[PoolExcluded]++
		if c.PoolOf(p.Index) != PoolExcluded {
			t.Errorf("passage %d reported in excluded pool but PoolOf disagrees", p.Index)
		}
	}
	counts[PoolPractice] = len(c.PassagesFor(PoolPractice))
	counts[PoolMain] = len(c.PassagesFor(PoolMain))

	total := counts[PoolExcluded] + counts[PoolPractice] + counts[PoolMain]
	if total != c.Size() {
		t.Errorf("pools sum to %d, catalog has %d", total, c.Size())
	}
}

func TestPracticePair(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	practice := c.PassagesFor(PoolPractice)
	if len(practice) != 2 {
		t.Fatalf("expected 2 practice passages, got %d", len(practice))
	}
	if practice[0].Category != CategoryHumanities {
		t.Errorf("first practice passage should be humanities, got %q", practice[0].Category)
	}
	if practice[1].Category != CategoryEngineering {
		t.Errorf("second practice passage should be engineering, got %q", practice[1].Category)
	}
}

func TestMainPoolNoDuplicates(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[int]bool{}
	for _, p := range c.PassagesFor(PoolMain) {
		if seen[p.Index] {
			t.Errorf("duplicate index %d in main pool", p.Index)
		}
		seen[p.Index] = true
		if c.PoolOf(p.Index) != PoolMain {
			t.Errorf("index %d in main pool but PoolOf disagrees", p.Index)
		}
	}
}

func TestEveryCategoryRepresentedInMainPool(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byCat := map[Category]int{}
	for _, p := range c.PassagesFor(PoolMain) {
		byCat[p.Category]++
	}
	for _, cat := range Categories {
		if byCat[cat] == 0 {
			t.Errorf("category %q has no passages in the main pool", cat)
		}
	}
}
