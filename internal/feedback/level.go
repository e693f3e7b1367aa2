// Package feedback classifies participant questions against Bloom's
// taxonomy and generates condition-controlled revision suggestions.
package feedback

// Level is one of the six ordered levels of Bloom's taxonomy.
type Level string

const (
	LevelRemember   Level = "remember"
	LevelUnderstand Level = "understand"
	LevelApply      Level = "apply"
	LevelAnalyze    Level = "analyze"
	LevelEvaluate   Level = "evaluate"
	LevelCreate     Level = "create"
)

// Levels lists the taxonomy in ascending order of sophistication.
var Levels = []Level{
	LevelRemember,
	LevelUnderstand,
	LevelApply,
	LevelAnalyze,
	LevelEvaluate,
	LevelCreate,
}

// ParseLevel normalizes a label to a known Level. Unknown labels fall back
// to the lowest level, the safe default for a failed classification.
func ParseLevel(s string) Level {
	for _, l := range Levels {
		if string(l) == s {
			return l
		}
	}
	return LevelRemember
}
