package ops

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hpungsan/scorelog/internal/errors"
)

// Role describes one structural slot a file can fill within a partition
// group. A file matches when its extension-stripped, prefix-normalized
// basename contains every Contains entry, contains no NotContains entry,
// and (if Pattern is non-empty) full-matches Pattern.
type Role struct {
	Name        string
	Required    bool // required roles must match exactly one file per group
	Contains    []string
	NotContains []string
	Pattern     string // full-string regular expression, optional
}

// DefaultRoles is the role schema for one subject's one-day file set: two
// required slots (the first pre-scoring segment and the fully scored
// morning log) and three optional ones.
func DefaultRoles() []Role {
	return []Role{
		{Name: "numbered segment 1", Required: true, Pattern: `.*_1`},
		{Name: "numbered segment 2", Pattern: `.*_2`},
		{Name: "morning scored log", Required: true, Contains: []string{"_Morning"}},
		{Name: "afternoon scored log", Contains: []string{"_Afternoon"}},
		{Name: "lights-on log", Contains: []string{"_LIGHTSON"}},
	}
}

// NormalizeName strips the path from filename and prepends prefix when
// absent, tolerating the optional naming convention variance.
func NormalizeName(filename, prefix string) string {
	base := filepath.Base(filename)
	if prefix != "" && !strings.HasPrefix(base, prefix) {
		base = prefix + base
	}
	return base
}

// stripExtensions drops everything from the first dot onward. Extensions
// stack in these filenames (e.g. ".wmv_AA.txt"), so the split is at the
// first dot, not the last.
func stripExtensions(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// NameCore returns the part of a filename shared by all files for the same
// subject on the same day: every underscore-separated component except the
// last, after normalization and extension stripping.
func NameCore(filename, prefix string) string {
	parts := strings.Split(stripExtensions(NormalizeName(filename, prefix)), "_")
	return strings.Join(parts[:len(parts)-1], "_")
}

// LastNameElem returns the final underscore-separated component of a
// normalized, extension-stripped filename. It distinguishes files within a
// group ("1", "2", "Morning", "LIGHTSON").
func LastNameElem(filename, prefix string) string {
	parts := strings.Split(stripExtensions(NormalizeName(filename, prefix)), "_")
	return parts[len(parts)-1]
}

// Matches reports whether filename fills this role.
func (r Role) Matches(filename, prefix string) (bool, error) {
	name := stripExtensions(NormalizeName(filename, prefix))

	for _, sub := range r.Contains {
		if !strings.Contains(name, sub) {
			return false, nil
		}
	}
	for _, sub := range r.NotContains {
		if strings.Contains(name, sub) {
			return false, nil
		}
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(`^(?:` + r.Pattern + `)$`)
		if err != nil {
			return false, errors.NewInvalidRequest(
				fmt.Sprintf("invalid pattern %q for role %q: %v", r.Pattern, r.Name, err))
		}
		if !re.MatchString(name) {
			return false, nil
		}
	}

	return true, nil
}

// ValidatePartition checks one partition group against the role schema and
// returns every problem found rather than stopping at the first. An empty
// slice means the group is valid.
//
// Problems: a file matching more than one role, a file matching none, a
// required role matched other than exactly once, an optional role matched
// more than once.
func ValidatePartition(group []string, roles []Role, prefix string) ([]string, error) {
	var problems []string
	matchCounts := make([]int, len(roles))

	for _, file := range group {
		var matched []string
		for i, role := range roles {
			ok, err := role.Matches(file, prefix)
			if err != nil {
				return nil, err
			}
			if ok {
				matchCounts[i]++
				matched = append(matched, role.Name)
			}
		}
		switch len(matched) {
		case 1:
		case 0:
			problems = append(problems, fmt.Sprintf("file %q matches no role", file))
		default:
			problems = append(problems, fmt.Sprintf("file %q matches multiple roles: %s",
				file, strings.Join(matched, ", ")))
		}
	}

	for i, role := range roles {
		count := matchCounts[i]
		if role.Required && count != 1 {
			problems = append(problems, fmt.Sprintf(
				"required role %q matched %d files, want exactly 1", role.Name, count))
		}
		if !role.Required && count > 1 {
			problems = append(problems, fmt.Sprintf(
				"optional role %q matched %d files, want at most 1", role.Name, count))
		}
	}

	return problems, nil
}
