package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

func TestPackage_SetCheck(t *testing.T) {
	t.Run("keeps maximum score across projects", func(t *testing.T) {
		pkg := model.NewPackage("requests", 1000)
		pkg.SetCheck("Maintained", 7)
		pkg.SetCheck("Maintained", 4)
		pkg.SetCheck("Maintained", 9)

		gt.Value(t, pkg.Checks["Maintained"]).NotNil()
		gt.Equal(t, *pkg.Checks["Maintained"], 9)
	})

	t.Run("records zero scores", func(t *testing.T) {
		pkg := model.NewPackage("requests", 1000)
		pkg.SetCheck("Fuzzing", 0)

		gt.Value(t, pkg.Checks["Fuzzing"]).NotNil()
		gt.Equal(t, *pkg.Checks["Fuzzing"], 0)
	})
}

func TestCheckNames(t *testing.T) {
	a := model.NewPackage("a", 10)
	a.SetCheck("Maintained", 10)
	a.SetCheck("CI-Tests", 5)

	b := model.NewPackage("b", 20)
	b.SetCheck("Maintained", 3)
	b.SetCheck("Fuzzing", 1)

	names := model.CheckNames([]*model.Package{a, b})
	gt.Equal(t, names, []string{"CI-Tests", "Fuzzing", "Maintained"})
}

func TestFillMissingChecks(t *testing.T) {
	a := model.NewPackage("a", 10)
	a.SetCheck("Maintained", 10)
	a.SetCheck("CI-Tests", 6)

	b := model.NewPackage("b", 20)
	b.SetCheck("Maintained", 4)

	names := []string{"CI-Tests", "Maintained"}
	model.FillMissingChecks([]*model.Package{a, b}, names)

	// missing values count as zero in the overall score
	gt.Equal(t, a.Overall, 8.0)
	gt.Equal(t, b.Overall, 2.0)

	score, ok := b.Checks["CI-Tests"]
	gt.True(t, ok)
	gt.Value(t, score).Nil()
}

func TestSortPackages(t *testing.T) {
	tests := []struct {
		name     string
		packages []*model.Package
		want     []string
	}{
		{
			name: "overall score descending",
			packages: []*model.Package{
				{Name: "low", Downloads: 100, Overall: 2.0},
				{Name: "high", Downloads: 10, Overall: 9.0},
				{Name: "mid", Downloads: 50, Overall: 5.0},
			},
			want: []string{"high", "mid", "low"},
		},
		{
			name: "downloads break score ties",
			packages: []*model.Package{
				{Name: "few", Downloads: 10, Overall: 5.0},
				{Name: "many", Downloads: 1000, Overall: 5.0},
			},
			want: []string{"many", "few"},
		},
		{
			name: "name breaks full ties",
			packages: []*model.Package{
				{Name: "zebra", Downloads: 10, Overall: 5.0},
				{Name: "alpha", Downloads: 10, Overall: 5.0},
			},
			want: []string{"alpha", "zebra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model.SortPackages(tt.packages)

			got := make([]string, 0, len(tt.packages))
			for _, pkg := range tt.packages {
				got = append(got, pkg.Name)
			}
			gt.Equal(t, got, tt.want)
		})
	}
}
