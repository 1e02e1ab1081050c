package model

import "sort"

// Package represents one PyPI package with its download count and
// OpenSSF Scorecard check values. A nil check value means deps.dev
// reported no score for that check.
type Package struct {
	Name      string
	Downloads int64
	Overall   float64
	Checks    map[string]*int
}

// NewPackage creates a package with an empty check set
func NewPackage(name string, downloads int64) *Package {
	return &Package{
		Name:      name,
		Downloads: downloads,
		Checks:    map[string]*int{},
	}
}

// SetCheck records a check score, keeping the maximum value when the
// same check is reported by multiple deps.dev projects.
func (p *Package) SetCheck(name string, score int) {
	if current, ok := p.Checks[name]; ok && current != nil && *current > score {
		return
	}
	s := score
	p.Checks[name] = &s
}

// CheckNames returns the sorted union of check names observed across packages
func CheckNames(packages []*Package) []string {
	seen := map[string]struct{}{}
	for _, pkg := range packages {
		for name := range pkg.Checks {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FillMissingChecks sets every listed check that a package lacks to nil and
// computes the overall score as the mean over all checks, counting missing
// values as zero.
func FillMissingChecks(packages []*Package, checkNames []string) {
	if len(checkNames) == 0 {
		return
	}

	for _, pkg := range packages {
		for _, name := range checkNames {
			if _, ok := pkg.Checks[name]; !ok {
				pkg.Checks[name] = nil
			}
		}

		var sum float64
		for _, score := range pkg.Checks {
			if score != nil {
				sum += float64(*score)
			}
		}
		pkg.Overall = sum / float64(len(pkg.Checks))
	}
}

// SortPackages orders packages by overall score descending, then downloads
// descending, then name ascending. The order is total, so output files are
// stable across runs over identical data.
func SortPackages(packages []*Package) {
	sort.Slice(packages, func(i, j int) bool {
		a, b := packages[i], packages[j]
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.Downloads != b.Downloads {
			return a.Downloads > b.Downloads
		}
		return a.Name < b.Name
	})
}
