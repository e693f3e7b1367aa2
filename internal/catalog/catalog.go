package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category is the subject-domain tag attached to each passage. Conditions
// are balanced within each category, so every passage must carry exactly one.
type Category string

const (
	CategoryHumanities     Category = "humanities"
	CategorySocialScience  Category = "social-science"
	CategoryNaturalScience Category = "natural-science"
	CategoryEngineering    Category = "engineering"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryHumanities,
	CategorySocialScience,
	CategoryNaturalScience,
	CategoryEngineering,
}

// Pool identifies which partition of the catalog a passage belongs to.
type Pool int

const (
	PoolExcluded Pool = iota
	PoolPractice
	PoolMain
)

// Passage is one reading text presented to the participant.
type Passage struct {
	Index    int      `yaml:"index"`
	Category Category `yaml:"category"`
	Text     string   `yaml:"text"`
}

//go:embed passages.yaml
var passagesYAML []byte

// Index assignments are a fixed lookup, not derived from numeric ranges.
// The practice pair is one humanities passage and one engineering passage.
var (
	excludedIndices = map[int]bool{5: true, 17: true}
	practiceIndices = []int{2, 20}
)

// Catalog holds the full fixed passage set, partitioned into pools.
type Catalog struct {
	byIndex map[int]Passage
	ordered []Passage
}

// Load parses the embedded passage catalog. An empty or inconsistent catalog
// is a fatal misconfiguration.
func Load() (*Catalog, error) {
	var doc struct {
		Passages []Passage `yaml:"passages"`
	}
	if err := yaml.Unmarshal(passagesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse passage catalog: %w", err)
	}
	if len(doc.Passages) == 0 {
		return nil, fmt.Errorf("passage catalog is empty")
	}

	c := &Catalog{byIndex: make(map[int]Passage, len(doc.Passages))}
	valid := make(map[Category]bool, len(Categories))
	for _, cat := range Categories {
		valid[cat] = true
	}

	for _, p := range doc.Passages {
		if p.Text == "" {
			return nil, fmt.Errorf("passage %d has no text", p.Index)
		}
		if !valid[p.Category] {
			return nil, fmt.Errorf("passage %d has unknown category %q", p.Index, p.Category)
		}
		if _, dup := c.byIndex[p.Index]; dup {
			return nil, fmt.Errorf("duplicate passage index %d", p.Index)
		}
		c.byIndex[p.Index] = p
	}

	for _, idx := range practiceIndices {
		if _, ok := c.byIndex[idx]; !ok {
			return nil, fmt.Errorf("practice index %d not in catalog", idx)
		}
		if excludedIndices[idx] {
			return nil, fmt.Errorf("practice index %d is also excluded", idx)
		}
	}

	c.ordered = append(c.ordered, doc.Passages...)
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Index < c.ordered[j].Index })
	return c, nil
}

// Size returns the total number of passages in the catalog.
func (c *Catalog) Size() int {
	return len(c.ordered)
}

// Get returns the passage with the given index.
func (c *Catalog) Get(index int) (Passage, bool) {
	p, ok := c.byIndex[index]
	return p, ok
}

// PoolOf reports which pool a passage index falls in. Every catalog index
// belongs to exactly one pool.
func (c *Catalog) PoolOf(index int) Pool {
	if excludedIndices[index] {
		return PoolExcluded
	}
	for _, idx := range practiceIndices {
		if idx == index {
			return PoolPractice
		}
	}
	return PoolMain
}

// PassagesFor returns the ordered passages in the given pool. The practice
// pool is returned in its fixed order (humanities first, then engineering);
// the main pool in ascending index order. Shuffling for the main phase is
// the session controller's job, not the catalog's.
func (c *Catalog) PassagesFor(pool Pool) []Passage {
	if pool == PoolPractice {
		out := make([]Passage, 0, len(practiceIndices))
		for _, idx := range practiceIndices {
			out = append(out, c.byIndex[idx])
		}
		return out
	}
	var out []Passage
	for _, p := range c.ordered {
		if c.PoolOf(p.Index) == pool {
			out = append(out, p)
		}
	}
	return out
}
