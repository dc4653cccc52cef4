package manifest

import (
	"bufio"
	"io"
	"iter"
	"slices"
	"strings"

	"golang.org/x/xerrors"

	"github.com/sambabib/dependency-dashboard/pkg/logger"
)

// Constraint is the version operator of a requirement line.
type Constraint string

const (
	ConstraintNone   Constraint = ""
	ConstraintEqual  Constraint = "=="
	ConstraintGTE    Constraint = ">="
	ConstraintLTE    Constraint = "<="
	ConstraintGT     Constraint = ">"
	ConstraintLT     Constraint = "<"
	ConstraintCompat Constraint = "~="
)

// operators are tried in this order; ">=" must be seen before ">".
var operators = []Constraint{
	ConstraintEqual,
	ConstraintGTE,
	ConstraintLTE,
	ConstraintGT,
	ConstraintLT,
	ConstraintCompat,
}

// skipPrefixes mark include and constraint directives rather than packages.
var skipPrefixes = []string{"-c", "--constraint", "-r", "--requirement"}

// Entry is one package parsed from a manifest. Version and Constraint are
// empty when the line carries no version.
type Entry struct {
	Name       string     `json:"name"`
	Version    string     `json:"version,omitempty"`
	Constraint Constraint `json:"constraint,omitempty"`
}

// HasVersion reports whether the entry carries a version.
func (e Entry) HasVersion() bool {
	return e.Constraint != ConstraintNone
}

// Entries returns a lazy sequence over the packages in content, in line
// order. The sequence can be ranged over any number of times. No line is
// ever rejected.
func Entries(content string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for line := range strings.Lines(content) {
			entry, ok := parseLine(line)
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Parse collects every entry of content.
func Parse(content string) []Entry {
	entries := slices.Collect(Entries(content))
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// ParseReader reads a manifest from r line by line. Lines may be of any
// length. Only read errors are reported, with the entries read so far.
func ParseReader(r io.Reader) ([]Entry, error) {
	entries := []Entry{}
	br := bufio.NewReader(r)
	for lineNum := 1; ; lineNum++ {
		line, err := br.ReadString('\n')
		if entry, ok := parseLine(line); ok {
			logger.Debugf("Manifest: line %d -> name=%q version=%q constraint=%q", lineNum, entry.Name, entry.Version, entry.Constraint)
			entries = append(entries, entry)
		}
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, xerrors.Errorf("error reading manifest: %w", err)
		}
	}
}

// parseLine returns false for lines that name no package: blanks, comments
// and directives.
func parseLine(line string) (Entry, bool) {
	line, _, _ = strings.Cut(line, "#") // Remove comments
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(line, prefix) {
			return Entry{}, false
		}
	}

	for _, op := range operators {
		name, version, found := strings.Cut(line, string(op))
		if !found {
			continue
		}
		return Entry{
			Name:       strings.TrimSpace(name),
			Version:    strings.TrimSpace(version),
			Constraint: op,
		}, true
	}

	// Extras without a version, e.g. "django[bcrypt]"
	if strings.Contains(line, "[") && strings.Contains(line, "]") {
		name, _, _ := strings.Cut(line, "[")
		return Entry{Name: strings.TrimSpace(name)}, true
	}

	return Entry{Name: line}, true
}
