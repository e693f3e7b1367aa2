package survey

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func fill(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func validPretest() *Pretest {
	return &Pretest{
		Gender: "female",
		Age:    27,
		Education: []EducationRecord{
			{Major: "Education", Degree: "BA", GraduationStatus: "graduated"},
		},
		AIFrequencyPerWeek: 5,
		AIToolsUsed:        "ChatGPT",
		AIUsagePurposes:    "summarizing papers",
		ReadingEfficacy:    fill(ReadingEfficacyItems, 4),
		Curiosity:          fill(CuriosityItems, 3),
		AIAttitude:         fill(AIAttitudeItems, 5),
		AITrust:            fill(AITrustItems, 2),
	}
}

func TestValidateAcceptsCompleteResponse(t *testing.T) {
	if err := validPretest().Validate(); err != nil {
		t.Errorf("complete response rejected: %v", err)
	}
}

func TestValidateRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pretest)
		want   string
	}{
		{"missing gender", func(p *Pretest) { p.Gender = "" }, "gender"},
		{"age too low", func(p *Pretest) { p.Age = 17 }, "age"},
		{"no education", func(p *Pretest) { p.Education = nil }, "education"},
		{"partial education only", func(p *Pretest) {
			p.Education = []EducationRecord{{Major: "Physics"}}
		}, "education"},
		{"short scale", func(p *Pretest) { p.Curiosity = p.Curiosity[:5] }, "curiosity"},
		{"item out of range", func(p *Pretest) { p.AITrust[3] = 6 }, "ai_trust"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPretest()
			tt.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWritePretestCSV(t *testing.T) {
	p := validPretest()
	p.Education = append(p.Education, EducationRecord{
		Major: "Cognitive Science", Degree: "MA", GraduationStatus: "enrolled",
	})

	var buf bytes.Buffer
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := WritePretestCSV(&buf, "p042", at, p); err != nil {
		t.Fatalf("WritePretestCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	header, row := rows[0], rows[1]
	if len(header) != len(row) {
		t.Fatalf("header has %d columns, row has %d", len(header), len(row))
	}

	byName := make(map[string]string, len(header))
	for i, h := range header {
		byName[h] = row[i]
	}

	checks := map[string]string{
		"participant_id":        "p042",
		"timestamp":             "2026-03-14 09:26:53",
		"gender":                "female",
		"age":                   "27",
		"ai_frequency_per_week": "5",
		"education_count":       "2",
		"major":                 "Education",
		"degree":                "BA",
		"graduation_status":     "graduated",
		"reading_efficacy_1":    "4",
		"reading_efficacy_11":   "4",
		"curiosity_10":          "3",
		"ai_attitude_8":         "5",
		"ai_trust_9":            "2",
	}
	for col, want := range checks {
		got, ok := byName[col]
		if !ok {
			t.Errorf("column %q missing", col)
			continue
		}
		if got != want {
			t.Errorf("column %q = %q, want %q", col, got, want)
		}
	}
	if _, ok := byName["reading_efficacy_0"]; ok {
		t.Error("scale columns must be 1-based")
	}
}
