// Package pretest walks the participant through the pretest questionnaire,
// one item at a time.
package pretest

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"bloomlab/internal/screen"
	"bloomlab/internal/survey"
	"bloomlab/internal/ui/components"
	"bloomlab/internal/ui/layout"
	"bloomlab/internal/ui/theme"
)

// Submitter receives the completed questionnaire.
type Submitter interface {
	SubmitPretest(p *survey.Pretest) error
}

// DoneMsg announces a validated, stored pretest.
type DoneMsg struct{}

type stepKind int

const (
	stepChoice stepKind = iota
	stepText
	stepLikert
)

type step struct {
	kind     stepKind
	section  string
	label    string
	optional bool

	// choice
	options  []string
	selected int

	// text
	input   components.TextInput
	numeric bool

	// likert
	likert components.Likert
}

// PretestScreen is the questionnaire wizard.
type PretestScreen struct {
	submitter Submitter
	steps     []step
	idx       int
	errMsg    string
}

var _ screen.Screen = (*PretestScreen)(nil)

// New creates the pretest wizard.
func New(submitter Submitter) *PretestScreen {
	var steps []step

	steps = append(steps,
		step{kind: stepChoice, section: "Demographics", label: "Your gender:",
			options: []string{"male", "female", "other"}, selected: -1},
		step{kind: stepText, section: "Demographics", label: "Your age:",
			input: components.NewTextInput("e.g. 24", true, 3), numeric: true},
		step{kind: stepText, section: "Demographics", label: "Your major (most recent):",
			input: components.NewTextInput("e.g. Education", false, 50)},
		step{kind: stepChoice, section: "Demographics", label: "Degree:",
			options: []string{"bachelor", "master", "doctorate"}, selected: -1},
		step{kind: stepChoice, section: "Demographics", label: "Status:",
			options: []string{"enrolled", "graduated", "on leave", "completed coursework"}, selected: -1},
		step{kind: stepText, section: "AI experience", label: "How many times per week do you use AI tools on average?",
			input: components.NewTextInput("e.g. 10", true, 4), numeric: true},
		step{kind: stepText, section: "AI experience", label: "Which AI tools do you use? (e.g. ChatGPT)",
			input: components.NewTextInput("", false, 100), optional: true},
		step{kind: stepText, section: "AI experience", label: "What do you mainly use AI for?",
			input: components.NewTextInput("", false, 200), optional: true},
	)

	scales := []struct {
		section string
		items   []string
	}{
		{"Reading self-efficacy", readingEfficacyItems},
		{"Curiosity", curiosityItems},
		{"Attitude toward AI", aiAttitudeItems},
		{"Trust in AI", aiTrustItems},
	}
	for _, sc := range scales {
		for i, item := range sc.items {
			l := components.NewLikert(
				fmt.Sprintf("%d. %s", i+1, item), 5,
				"strongly disagree", "strongly agree")
			l.Focused = true
			steps = append(steps, step{kind: stepLikert, section: sc.section, likert: l})
		}
	}

	return &PretestScreen{submitter: submitter, steps: steps}
}

func (p *PretestScreen) Title() string {
	return "Pretest Survey"
}

func (p *PretestScreen) Init() tea.Cmd {
	return nil
}

func (p *PretestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	cur := &p.steps[p.idx]

	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		if !p.stepComplete(cur) {
			p.errMsg = "This item is required."
			return p, nil
		}
		p.errMsg = ""
		if p.idx < len(p.steps)-1 {
			p.idx++
			return p, nil
		}
		return p, p.submit()
	}

	var cmd tea.Cmd
	switch cur.kind {
	case stepChoice:
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			switch kmsg.String() {
			case "left", "up":
				if cur.selected > 0 {
					cur.selected--
				} else if cur.selected < 0 {
					cur.selected = 0
				}
			case "right", "down":
				if cur.selected < 0 {
					cur.selected = 0
				} else if cur.selected < len(cur.options)-1 {
					cur.selected++
				}
			}
		}
	case stepText:
		cur.input, cmd = cur.input.Update(msg)
	case stepLikert:
		cur.likert, cmd = cur.likert.Update(msg)
	}
	return p, cmd
}

func (p *PretestScreen) stepComplete(s *step) bool {
	if s.optional {
		return true
	}
	switch s.kind {
	case stepChoice:
		return s.selected >= 0
	case stepText:
		if s.numeric {
			_, err := s.input.NumericValue()
			return err == nil
		}
		return strings.TrimSpace(s.input.Value()) != ""
	case stepLikert:
		return s.likert.Answered()
	}
	return false
}

func (p *PretestScreen) submit() tea.Cmd {
	response := p.assemble()
	if err := p.submitter.SubmitPretest(response); err != nil {
		p.errMsg = err.Error()
		return nil
	}
	return func() tea.Msg { return DoneMsg{} }
}

func (p *PretestScreen) assemble() *survey.Pretest {
	out := &survey.Pretest{}

	choice := func(i int) string {
		s := p.steps[i]
		if s.selected < 0 {
			return ""
		}
		return s.options[s.selected]
	}
	numeric := func(i int) int {
		n, _ := p.steps[i].input.NumericValue()
		return n
	}

	out.Gender = choice(0)
	out.Age = numeric(1)
	out.Education = []survey.EducationRecord{{
		Major:            strings.TrimSpace(p.steps[2].input.Value()),
		Degree:           choice(3),
		GraduationStatus: choice(4),
	}}
	out.AIFrequencyPerWeek = numeric(5)
	out.AIToolsUsed = strings.TrimSpace(p.steps[6].input.Value())
	out.AIUsagePurposes = strings.TrimSpace(p.steps[7].input.Value())

	answers := make([]int, 0, len(p.steps)-8)
	for _, s := range p.steps[8:] {
		answers = append(answers, s.likert.Selected)
	}
	cut := func(n int) []int {
		part := answers[:n]
		answers = answers[n:]
		return part
	}
	out.ReadingEfficacy = cut(survey.ReadingEfficacyItems)
	out.Curiosity = cut(survey.CuriosityItems)
	out.AIAttitude = cut(survey.AIAttitudeItems)
	out.AITrust = cut(survey.AITrustItems)
	return out
}

func (p *PretestScreen) View(width, height int) string {
	cur := p.steps[p.idx]

	var sections []string
	sections = append(sections,
		theme.Subtitle.Render(fmt.Sprintf("%s — item %d of %d", cur.section, p.idx+1, len(p.steps))),
		"",
	)

	switch cur.kind {
	case stepChoice:
		sections = append(sections, theme.Body.Bold(true).Render(cur.label), "")
		var opts []string
		for i, o := range cur.options {
			if i == cur.selected {
				opts = append(opts, theme.Selected.Render("["+o+"]"))
			} else {
				opts = append(opts, theme.Unselected.Render(" "+o+" "))
			}
		}
		sections = append(sections, strings.Join(opts, "   "))
	case stepText:
		sections = append(sections, theme.Body.Bold(true).Render(cur.label), "", cur.input.View())
		if cur.optional {
			sections = append(sections, "", theme.Hint.Render("optional — enter to skip"))
		}
	case stepLikert:
		sections = append(sections, cur.likert.View())
	}

	if p.errMsg != "" {
		sections = append(sections, "", theme.Invalid.Render(p.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// KeyHints implements screen.KeyHintProvider.
func (p *PretestScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→/1-5", Description: "Answer"},
		{Key: "Enter", Description: "Next"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
