// Package observability provides logging, metrics and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/college-recommender/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// PrintProfile outputs a human-readable summary of the student profile.
func (p *Printer) PrintProfile(profile *types.StudentProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if profile.EntranceRank != nil {
		sb.WriteString(fmt.Sprintf("Entrance rank: %d\n", *profile.EntranceRank))
	}
	if profile.BudgetMax != nil {
		sb.WriteString(fmt.Sprintf("Budget:        %.0f\n", *profile.BudgetMax))
	}
	if len(profile.PreferredLocations) > 0 {
		sb.WriteString(fmt.Sprintf("Locations:     %s\n", strings.Join(profile.PreferredLocations, ", ")))
	}
	if len(profile.PreferredCourses) > 0 {
		sb.WriteString(fmt.Sprintf("Courses:       %s\n", strings.Join(profile.PreferredCourses, ", ")))
	}
	if profile.PreferredCollegeType != "" {
		sb.WriteString(fmt.Sprintf("College type:  %s\n", profile.PreferredCollegeType))
	}
	if profile.HostelRequired {
		sb.WriteString("Hostel:        required\n")
	}
	if profile.HasProximity() {
		sb.WriteString(fmt.Sprintf("Near:          %.4f, %.4f (%.0f km)\n",
			profile.LocationProximity.Latitude, profile.LocationProximity.Longitude, *profile.MaxDistanceKm))
	}
	sb.WriteString(fmt.Sprintf("Priorities:    rating=%s pass=%s internship=%s scholarship=%s",
		profile.RatingPriority, profile.PassPercentagePriority, profile.InternshipPriority, profile.ScholarshipPriority))

	p.printBox("STUDENT PROFILE", sb.String())
}

// PrintRecommendations outputs the top ranked programs with match percentages and reasoning.
func (p *Printer) PrintRecommendations(recs []types.CollegeRecommendation) {
	if len(recs) == 0 {
		p.printBox("RECOMMENDATIONS", "No programs matched.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Programs ranked: %d\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rec.Rank, rec.Program.CollegeName))
		if rec.Program.CourseName != "" {
			sb.WriteString(fmt.Sprintf("    Course: %s\n", rec.Program.CourseName))
		}
		sb.WriteString(fmt.Sprintf("    Match: %.1f%% | Fee: %.0f\n", rec.MatchPercentage, rec.Program.Fee))
		if rec.Program.Location != "" {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", rec.Program.Location))
		}
		sb.WriteString(fmt.Sprintf("    %s\n", rec.Score.Reasoning))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more programs", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFieldRanking outputs a single-field ranking.
func (p *Printer) PrintFieldRanking(field string, values []types.FieldValue) {
	var sb strings.Builder
	if len(values) == 0 {
		sb.WriteString("No programs loaded.")
	}
	for i, v := range values {
		name := v.CollegeName
		if v.CourseName != "" {
			name += " - " + v.CourseName
		}
		sb.WriteString(fmt.Sprintf("%2d. %-40s %10.2f", i+1, truncate(name, 40), v.Value))
		if i < len(values)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOP PROGRAMS BY "+strings.ToUpper(field), sb.String())
}

// PrintStatistics outputs one block of figures per group.
func (p *Printer) PrintStatistics(group types.StatsGroup, stats []types.GroupStats) {
	var sb strings.Builder
	if len(stats) == 0 {
		sb.WriteString("No programs loaded.")
	}
	for i, st := range stats {
		sb.WriteString(fmt.Sprintf("%s (%d programs, %d colleges)\n", st.Group, st.Programs, st.Colleges))
		sb.WriteString(fmt.Sprintf("  Fee: avg %.0f, min %.0f, max %.0f, sd %.0f\n", st.AverageFee, st.MinFee, st.MaxFee, st.FeeStdDev))
		sb.WriteString(fmt.Sprintf("  Rating %.2f | Pass %.1f%% | Seats %.0f", st.AverageRating, st.AveragePassPercentage, st.TotalSeats))
		if i < len(stats)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STATISTICS BY "+strings.ToUpper(string(group)), sb.String())
}
