package filter

import (
	"strings"

	"golang.org/x/xerrors"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// AllProjects is the project scope that keeps every record.
const AllProjects = "all"

// Status selects records by their needs_update flag.
type Status string

const (
	StatusAll         Status = "all"
	StatusUpToDate    Status = "upToDate"
	StatusNeedsUpdate Status = "needsUpdate"
)

// Security selects records by their has_vulnerabilities flag.
type Security string

const (
	SecurityAll        Security = "all"
	SecurityVulnerable Security = "vulnerable"
	SecuritySecure     Security = "secure"
)

// RiskAll disables the risk filter.
const RiskAll model.Risk = "all"

// State is the set of user-selected filters. The zero value is not the
// default; use Default.
type State struct {
	Status   Status     `json:"status"`
	Risk     model.Risk `json:"risk"`
	Security Security   `json:"security"`
	Search   string     `json:"search"`
}

// Default returns the all-permissive filter state.
func Default() State {
	return State{
		Status:   StatusAll,
		Risk:     RiskAll,
		Security: SecurityAll,
	}
}

// IsDefault reports whether s filters nothing out.
func (s State) IsDefault() bool {
	return s.normalized() == Default()
}

// normalized maps empty enum values to their "all" defaults and prepares the
// search term for matching.
func (s State) normalized() State {
	if s.Status == "" {
		s.Status = StatusAll
	}
	if s.Risk == "" {
		s.Risk = RiskAll
	}
	if s.Security == "" {
		s.Security = SecurityAll
	}
	s.Search = strings.ToLower(strings.TrimSpace(s.Search))
	return s
}

// Values carries raw, user-supplied filter values, such as query parameters
// or CLI flags.
type Values struct {
	Status   string
	Risk     string
	Security string
	Search   string
}

// ParseState validates raw values. Empty values take the default. Unknown
// enum values are reported so they can be shown to the user.
func ParseState(v Values) (State, error) {
	s := Default()
	s.Search = v.Search

	switch Status(v.Status) {
	case "", StatusAll:
	case StatusUpToDate, StatusNeedsUpdate:
		s.Status = Status(v.Status)
	default:
		return Default(), xerrors.Errorf("invalid status filter %q (want all, upToDate or needsUpdate)", v.Status)
	}

	switch {
	case v.Risk == "" || v.Risk == string(RiskAll):
	case model.Risk(v.Risk).Index() >= 0:
		s.Risk = model.Risk(v.Risk)
	default:
		return Default(), xerrors.Errorf("invalid risk filter %q (want all, Low, Medium, High or Critical)", v.Risk)
	}

	switch Security(v.Security) {
	case "", SecurityAll:
	case SecurityVulnerable, SecuritySecure:
		s.Security = Security(v.Security)
	default:
		return Default(), xerrors.Errorf("invalid security filter %q (want all, vulnerable or secure)", v.Security)
	}

	return s, nil
}
