package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/meetingnotes/observability"
)

// Section groups related summary entries.
type Section string

const (
	SectionDirectories Section = "Directories"
	SectionProviders   Section = "Providers"
	SectionRoutes      Section = "Routes"
)

var sectionOrder = []Section{SectionDirectories, SectionProviders, SectionRoutes}

var sectionIcons = map[Section]string{
	SectionDirectories: "📁",
	SectionProviders:   "🔌",
	SectionRoutes:      "🌐",
}

// Entry is one line of the startup summary.
type Entry struct {
	Name   string
	Detail string
}

// Summary collects what the application wired during startup and prints it
// once the app is ready.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	sections        map[Section][]Entry
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		sections:    make(map[Section][]Entry),
		out:         os.Stdout,
	}
}

// SetOutput redirects the printed summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Track adds an entry to a section.
func (s *Summary) Track(section Section, name, detail string) {
	s.sections[section] = append(s.sections[section], Entry{Name: name, Detail: detail})
}

// TrackRoutes adds "METHOD /path" strings to the routes section.
func (s *Summary) TrackRoutes(routes []string) {
	for _, r := range routes {
		method, path, _ := strings.Cut(r, " ")
		s.Track(SectionRoutes, method, path)
	}
}

// Entries returns the entries recorded for a section.
func (s *Summary) Entries(section Section) []Entry {
	return s.sections[section]
}

// Display prints the summary followed by the health results, if any.
func (s *Summary) Display(health *observability.ServiceHealth) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	for _, sec := range sectionOrder {
		entries := s.sections[sec]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", sectionIcons[sec], sec)
		for i, e := range entries {
			fmt.Fprintf(w, "   %s %-8s %s\n", treePrefix(i, len(entries)), e.Name, e.Detail)
		}
	}

	if health != nil && len(health.Components) > 0 {
		fmt.Fprintf(w, "\n🏥 Health (%s)\n", health.Status)
		for i, h := range health.Components {
			msg := ""
			if h.Message != "" {
				msg = " - " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(health.Components)), healthIcon(h.Status), h.Name, h.Status, msg)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	default:
		return "❌"
	}
}
