package survey

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WritePretestCSV flattens one pretest response to a single CSV row. Column
// names follow the historical export format so downstream analysis scripts
// keep working: scale items are 1-based (reading_efficacy_1..11 etc), all
// education records are serialized into one column, and the first record is
// duplicated into major/degree/graduation_status.
func WritePretestCSV(w io.Writer, participantID string, at time.Time, p *Pretest) error {
	header := []string{
		"participant_id", "timestamp", "gender", "age",
		"ai_frequency_per_week", "ai_tools_used", "ai_usage_purposes",
		"education_records", "education_count",
		"major", "degree", "graduation_status",
	}
	row := []string{
		participantID,
		at.Format("2006-01-02 15:04:05"),
		p.Gender,
		strconv.Itoa(p.Age),
		strconv.Itoa(p.AIFrequencyPerWeek),
		p.AIToolsUsed,
		p.AIUsagePurposes,
	}

	education := p.CompleteEducation()
	eduJSON, err := json.Marshal(education)
	if err != nil {
		return fmt.Errorf("encode education records: %w", err)
	}
	row = append(row, string(eduJSON), strconv.Itoa(len(education)))

	if len(education) > 0 {
		row = append(row, education[0].Major, education[0].Degree, education[0].GraduationStatus)
	} else {
		row = append(row, "", "", "")
	}

	scales := []struct {
		prefix  string
		answers []int
	}{
		{"reading_efficacy", p.ReadingEfficacy},
		{"curiosity", p.Curiosity},
		{"ai_attitude", p.AIAttitude},
		{"ai_trust", p.AITrust},
	}
	for _, s := range scales {
		for i, a := range s.answers {
			header = append(header, fmt.Sprintf("%s_%d", s.prefix, i+1))
			row = append(row, strconv.Itoa(a))
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
