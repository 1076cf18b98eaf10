/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/goproj/pkg/buildinfo"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
)

// Result is the verification outcome for one manifest file. Err carries
// the underlying read or parse error so callers can classify the
// failure; Error is its rendered form for reports.
type Result struct {
	Manifest   string      `json:"manifest" yaml:"manifest"`
	Healthy    bool        `json:"healthy" yaml:"healthy"`
	Records    int         `json:"records" yaml:"records"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// Report aggregates the results of one verify invocation.
type Report struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Tool        string    `json:"tool" yaml:"tool"`
	Version     string    `json:"version" yaml:"version"`
	Healthy     bool      `json:"healthy" yaml:"healthy"`
	Results     []Result  `json:"results" yaml:"results"`
}

// Files verifies each manifest path. Distinct manifests are independent,
// so they are checked concurrently; each one still has a single reader
// and no writer.
func Files(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Tool:        "goproj",
		Version:     buildinfo.Version(),
		Results:     make([]Result, len(paths)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Results[i] = verifyFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Healthy = true
	for _, res := range report.Results {
		if !res.Healthy {
			report.Healthy = false
			break
		}
	}
	return report, nil
}

func verifyFile(path string) Result {
	res := Result{Manifest: path}

	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied by design
	if err != nil {
		res.Err = fmt.Errorf("reading manifest: %w", err)
		res.Error = res.Err.Error()
		return res
	}
	m, err := manifest.Parse(string(data))
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	m.EachRecord(func(*manifest.Record) { res.Records++ })
	res.Violations = Validate(m)
	res.Healthy = len(res.Violations) == 0
	if !res.Healthy {
		logger.Debug("manifest failed verification",
			logger.String("manifest", path),
			logger.Int("violations", len(res.Violations)))
	}
	return res
}
