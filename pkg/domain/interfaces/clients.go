package interfaces

import (
	"context"

	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

// TopPackagesClient fetches the top PyPI packages by download count
type TopPackagesClient interface {
	// FetchTopPackages returns packages with Name and Downloads populated
	FetchTopPackages(ctx context.Context) ([]*model.Package, error)
}

// ScorecardClient fetches OpenSSF Scorecard check values for one package
type ScorecardClient interface {
	// FetchChecks returns check name to score. A nil map without error
	// means deps.dev has no scorecard data for the package.
	FetchChecks(ctx context.Context, pkgName string) (map[string]int, error)
}
