package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/huddlesocial/huddle/internal/rater"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	good  lipgloss.Style
	fair  lipgloss.Style
	poor  lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

// newStyles binds the palette to w so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#CFB991")),
		label: r.NewStyle().Width(22).Foreground(lipgloss.Color("7")),
		good:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		fair:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		poor:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		muted: r.NewStyle().Foreground(lipgloss.Color("8")),
		box:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#CFB991")).Padding(0, 1),
	}
}

func (s styles) score(v float64) string {
	text := fmt.Sprintf("%.2f / 10", v)
	switch {
	case v >= 7:
		return s.good.Render(text)
	case v >= 4:
		return s.fair.Render(text)
	default:
		return s.poor.Render(text)
	}
}

type jsonReport struct {
	Source    string                `json:"source"`
	Weightage rater.Weightage       `json:"weightage"`
	Parsed    *rater.ParsedSchedule `json:"parsed"`
}

func render(w io.Writer, format, source string, weights rater.Weightage, ps *rater.ParsedSchedule) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{Source: source, Weightage: weights, Parsed: ps})
	}

	s := newStyles(w)
	var b strings.Builder
	b.WriteString(s.title.Render("Schedule score") + "  " + s.muted.Render(source) + "\n\n")
	b.WriteString(s.label.Render("Final score") + s.score(ps.FinalScore) + "\n")
	b.WriteString(s.label.Render("Weightage") + fmt.Sprintf("RMP %d · BoilerGrades %d · Hecticness %d",
		weights.RMP, weights.BoilerGrades, weights.Hecticness) + "\n")
	b.WriteString(s.label.Render("RMP") + fmt.Sprintf("%.2f", ps.RMPScore) + "\n")
	b.WriteString(s.label.Render("BoilerGrades") + fmt.Sprintf("%.2f", ps.BoilerGradesScore) + "\n")
	b.WriteString(s.label.Render("Hecticness") + fmt.Sprintf("%.2f", ps.HecticnessScore) + "\n")

	highlights := []struct {
		label  string
		course *string
		value  string
	}{
		{"Lowest GPA", ps.LowestGPACourse, floatValue(ps.LowestGPA)},
		{"Lowest RMP rating", ps.LowestRMPCourse, floatValue(ps.LowestRMP)},
		{"Hardest", ps.HardestCourse, floatValue(ps.HighestDifficulty)},
		{"Most loved", ps.MostLovedCourse, percentValue(ps.HighestWouldTakeAgain)},
		{"Most reviewed", ps.MostReviewedCourse, intValue(ps.MostReviews)},
	}
	b.WriteString("\n")
	for _, h := range highlights {
		if h.course == nil {
			b.WriteString(s.label.Render(h.label) + s.muted.Render("n/a") + "\n")
			continue
		}
		b.WriteString(s.label.Render(h.label) + *h.course + " " + s.muted.Render("("+h.value+")") + "\n")
	}

	for _, c := range ps.AllCourses {
		b.WriteString("\n" + s.title.Render(c.CourseName) + "\n")
		if c.Summary != "" {
			b.WriteString(c.Summary + "\n")
		}
		for _, st := range c.Strengths {
			b.WriteString(s.good.Render("+ ") + st + "\n")
		}
		for _, wk := range c.Weaknesses {
			b.WriteString(s.poor.Render("- ") + wk + "\n")
		}
	}

	_, err := fmt.Fprintln(w, s.box.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

func renderCourses(w io.Writer, format string, courses []rater.CourseRecord) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(courses)
	}

	s := newStyles(w)
	for _, c := range courses {
		gpa := "n/a"
		if c.AverageGPA != nil {
			gpa = fmt.Sprintf("%.2f", *c.AverageGPA)
		}
		line := s.label.Render(c.Name) + fmt.Sprintf("GPA %s · %d reviews", gpa, len(c.Reviews))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func floatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func percentValue(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func intValue(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
