// Package survey models the pretest questionnaire: demographics, AI-use
// background, and four Likert scales.
package survey

import (
	"fmt"
	"strings"
)

// Scale item counts. Every item is answered on a 1-5 Likert scale.
const (
	ReadingEfficacyItems = 11
	CuriosityItems       = 10
	AIAttitudeItems      = 8
	AITrustItems         = 9
)

// EducationRecord is one major/degree entry. Participants may list several.
type EducationRecord struct {
	Major            string
	Degree           string
	GraduationStatus string
}

// Complete reports whether every field of the record is filled in.
func (e EducationRecord) Complete() bool {
	return strings.TrimSpace(e.Major) != "" &&
		strings.TrimSpace(e.Degree) != "" &&
		strings.TrimSpace(e.GraduationStatus) != ""
}

// Pretest is the full pretest questionnaire response.
type Pretest struct {
	Gender string
	Age    int

	Education []EducationRecord

	AIFrequencyPerWeek int
	AIToolsUsed        string
	AIUsagePurposes    string

	ReadingEfficacy []int
	Curiosity       []int
	AIAttitude      []int
	AITrust         []int
}

// Validate checks completeness: gender and age present, at least one
// complete education record, and every scale item answered in range.
func (p *Pretest) Validate() error {
	var missing []string

	if strings.TrimSpace(p.Gender) == "" {
		missing = append(missing, "gender")
	}
	if p.Age < 18 || p.Age > 100 {
		missing = append(missing, "age (18-100)")
	}

	complete := 0
	for _, rec := range p.Education {
		if rec.Complete() {
			complete++
		}
	}
	if complete == 0 {
		missing = append(missing, "at least one complete education record")
	}

	scales := []struct {
		name    string
		answers []int
		items   int
	}{
		{"reading_efficacy", p.ReadingEfficacy, ReadingEfficacyItems},
		{"curiosity", p.Curiosity, CuriosityItems},
		{"ai_attitude", p.AIAttitude, AIAttitudeItems},
		{"ai_trust", p.AITrust, AITrustItems},
	}
	for _, s := range scales {
		if len(s.answers) != s.items {
			missing = append(missing, fmt.Sprintf("%s (%d of %d items)", s.name, len(s.answers), s.items))
			continue
		}
		for i, a := range s.answers {
			if a < 1 || a > 5 {
				missing = append(missing, fmt.Sprintf("%s item %d out of range", s.name, i+1))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("survey incomplete: %s", strings.Join(missing, "; "))
	}
	return nil
}

// CompleteEducation returns only the fully filled-in education records.
func (p *Pretest) CompleteEducation() []EducationRecord {
	var out []EducationRecord
	for _, rec := range p.Education {
		if rec.Complete() {
			out = append(out, rec)
		}
	}
	return out
}
