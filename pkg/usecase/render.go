package usecase

import (
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/types"
)

//go:embed templates/readme.md.tmpl
var readmeTemplate string

// GitHub renders huge READMEs poorly, so the table is cut off well below
// the full package count.
const defaultReadmeLimit = 1000

// missing check values render as an en dash in the README and as an empty
// field in the CSV
const missingValueDash = "–"

// Renderer writes a snapshot's artifacts: the dated CSV under data/ and
// the ranked README table.
type Renderer struct {
	baseDir     string
	readmeLimit int
	tmpl        *template.Template
}

// RenderOption is a functional option for the renderer
type RenderOption func(*Renderer)

// WithReadmeLimit caps the number of rows in the README table
func WithReadmeLimit(n int) RenderOption {
	return func(r *Renderer) {
		if n > 0 {
			r.readmeLimit = n
		}
	}
}

// NewRenderer creates a renderer rooted at baseDir
func NewRenderer(baseDir string, opts ...RenderOption) (*Renderer, error) {
	tmpl, err := template.New("readme").Funcs(template.FuncMap{
		"join":  strings.Join,
		"comma": groupDigits,
		"cells": checkCells,
	}).Parse(readmeTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse README template")
	}

	r := &Renderer{
		baseDir:     baseDir,
		readmeLimit: defaultReadmeLimit,
		tmpl:        tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WriteArtifacts writes both the CSV and the README for a snapshot
func (r *Renderer) WriteArtifacts(ctx context.Context, snapshot *model.Snapshot) error {
	csvPath, err := r.WriteCSV(ctx, snapshot)
	if err != nil {
		return err
	}
	readmePath, err := r.WriteReadme(ctx, snapshot)
	if err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Wrote artifacts",
		"csv", csvPath,
		"readme", readmePath,
		"package_count", len(snapshot.Packages),
	)

	return nil
}

// WriteCSV writes the full dataset to data/{date}.csv
func (r *Renderer) WriteCSV(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	dir := filepath.Join(r.baseDir, types.DataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}

	path := filepath.Join(dir, snapshot.CSVFileName())
	f, err := os.Create(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create CSV file", goerr.V("path", path))
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"Package", "Downloads", "Overall"}, snapshot.CheckNames...)
	if err := w.Write(header); err != nil {
		return "", goerr.Wrap(err, "failed to write CSV header")
	}

	for _, pkg := range snapshot.Packages {
		row := make([]string, 0, len(header))
		row = append(row,
			pkg.Name,
			strconv.FormatInt(pkg.Downloads, 10),
			fmt.Sprintf("%.2f", pkg.Overall),
		)
		for _, name := range snapshot.CheckNames {
			if score := pkg.Checks[name]; score != nil {
				row = append(row, strconv.Itoa(*score))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return "", goerr.Wrap(err, "failed to write CSV row", goerr.V("package", pkg.Name))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", goerr.Wrap(err, "failed to flush CSV", goerr.V("path", path))
	}

	return path, nil
}

// WriteReadme renders the ranked Markdown table into README.md
func (r *Renderer) WriteReadme(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	packages := snapshot.Packages
	if len(packages) > r.readmeLimit {
		packages = packages[:r.readmeLimit]
	}

	view := struct {
		Date       string
		CheckNames []string
		Separator  string
		Packages   []*model.Package
	}{
		Date:       snapshot.DisplayDate(),
		CheckNames: snapshot.CheckNames,
		Separator:  "-" + strings.Repeat("|-", len(snapshot.CheckNames)+2),
		Packages:   packages,
	}

	path := filepath.Join(r.baseDir, types.ReadmeFile)
	f, err := os.Create(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create README", goerr.V("path", path))
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, view); err != nil {
		return "", goerr.Wrap(err, "failed to render README template")
	}

	return path, nil
}

// groupDigits formats a download count with thousands separators
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// checkCells renders a package's check values as README table cells
func checkCells(pkg *model.Package, checkNames []string) string {
	cells := make([]string, 0, len(checkNames))
	for _, name := range checkNames {
		if score := pkg.Checks[name]; score != nil {
			cells = append(cells, strconv.Itoa(*score))
		} else {
			cells = append(cells, missingValueDash)
		}
	}
	return strings.Join(cells, "|")
}
