package scraper

import "strings"

const (
	// StatisticsMarker opens the report section in MATLAB output.
	StatisticsMarker = "STATISTICS"
	// ContrastMarker is printed on its own line right before the contrast title.
	ContrastMarker = "CONTRAST"
)

// Section is the scraped statistics report plus what was observed on the way.
type Section struct {
	Lines     []string
	Contrasts []string
}

// Empty reports whether no STATISTICS marker was found.
func (s Section) Empty() bool {
	return len(s.Lines) == 0
}

// Option configures a scan.
type Option func(*options)

type options struct {
	onContrast func(line string)
}

// WithContrastObserver registers a callback for each line following a bare
// CONTRAST marker line.
func WithContrastObserver(fn func(line string)) Option {
	return func(o *options) {
		o.onContrast = fn
	}
}

// Extract returns the lines from the first one containing STATISTICS to the end
// of the output. It returns an empty slice when the marker never appears.
func Extract(raw string, opts ...Option) []string {
	return Scan(raw, opts...).Lines
}

// Scan walks the output once. Collection starts at the first line that contains
// StatisticsMarker and is never switched off again, so a second report later
// in the output is appended to the first.
func Scan(raw string, opts ...Option) Section {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	section := Section{Lines: []string{}}
	collecting := false
	previous := ""
	for _, line := range SplitLines(raw) {
		if previous == ContrastMarker {
			section.Contrasts = append(section.Contrasts, line)
			if o.onContrast != nil {
				o.onContrast(line)
			}
		}
		if !collecting && strings.Contains(line, StatisticsMarker) {
			collecting = true
		}
		if collecting {
			section.Lines = append(section.Lines, line)
		}
		previous = line
	}
	return section
}

// SplitLines splits MATLAB output on '\n', dropping a trailing '\r' from each
// line. The empty string after a final newline is not treated as a line.
func SplitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
