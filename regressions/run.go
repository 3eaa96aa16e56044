package regressions

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reusee/tinyc/compiles"
	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/syncs"
	"github.com/reusee/tinyc/tinylang"
)

// RunSample compiles and executes a sample in a scratch directory.
type RunSample func(ctx context.Context, sample Sample) (Outcome, error)

func (Module) RunSample(
	compile compiles.Compile,
) RunSample {
	return func(ctx context.Context, sample Sample) (Outcome, error) {
		dir, err := os.MkdirTemp("", "tinytest-")
		if err != nil {
			return Outcome{}, wrap(err)
		}
		defer os.RemoveAll(dir)

		name := strings.TrimSuffix(filepath.Base(sample.Path), filepath.Ext(sample.Path))
		output := filepath.Join(dir, name)
		if err := compile(ctx, sample.Path, output); err != nil {
			var e *tinylang.Error
			if !errors.As(err, &e) {
				return Outcome{}, err
			}
			code := 1
			return Outcome{
				CompileError: e.Error(),
				ExitCode:     &code,
			}, nil
		}

		stdout := new(bytes.Buffer)
		cmd := exec.CommandContext(ctx, output)
		cmd.Stdout = stdout
		cmd.Stderr = os.Stderr
		code := 0
		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return Outcome{}, wrap(err)
			}
			code = exitErr.ExitCode()
		}
		return Outcome{
			Stdout:   stdout.String(),
			ExitCode: &code,
		}, nil
	}
}

type Mismatch struct {
	Sample   Sample
	Expected Outcome
	Got      Outcome
}

type Report struct {
	Passed  []Sample
	Failed  []Mismatch
	Skipped []Sample
}

func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Check runs every sample under root against its fixture.
type Check func(ctx context.Context, root string) (*Report, error)

func (Module) Check(
	logger logs.Logger,
	parallel Parallel,
	runSample RunSample,
) Check {
	return func(ctx context.Context, root string) (*Report, error) {
		samples, err := Discover(root)
		if err != nil {
			return nil, err
		}

		report := new(Report)
		var l sync.Mutex
		err = forEach(parallel, samples, func(sample Sample) error {
			expected, err := readFixture(sample)
			if errors.Is(err, ErrNoFixture) {
				logger.ErrorContext(ctx, "no fixture, skipping",
					"sample", sample.Path,
				)
				l.Lock()
				report.Skipped = append(report.Skipped, sample)
				l.Unlock()
				return nil
			} else if err != nil {
				return err
			}

			got, err := runSample(ctx, sample)
			if err != nil {
				return err
			}

			l.Lock()
			defer l.Unlock()
			if !got.Equal(expected) {
				logger.ErrorContext(ctx, "mismatch",
					"sample", sample.Path,
				)
				report.Failed = append(report.Failed, Mismatch{
					Sample:   sample,
					Expected: expected,
					Got:      got,
				})
				return nil
			}
			report.Passed = append(report.Passed, sample)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return report, nil
	}
}

// Record runs every sample under root and writes its fixture.
type Record func(ctx context.Context, root string) ([]Sample, error)

func (Module) Record(
	logger logs.Logger,
	parallel Parallel,
	runSample RunSample,
) Record {
	return func(ctx context.Context, root string) ([]Sample, error) {
		samples, err := Discover(root)
		if err != nil {
			return nil, err
		}
		err = forEach(parallel, samples, func(sample Sample) error {
			outcome, err := runSample(ctx, sample)
			if err != nil {
				return err
			}
			if err := writeFixture(sample, outcome); err != nil {
				return err
			}
			logger.InfoContext(ctx, "recorded",
				"sample", sample.Path,
				"fixture", sample.FixturePath(),
			)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return samples, nil
	}
}

func forEach(parallel Parallel, samples []Sample, fn func(Sample) error) error {
	sem := syncs.NewSemaphore(max(int(parallel), 1))
	wg := new(sync.WaitGroup)
	var l sync.Mutex
	var errs []error
	for _, sample := range samples {
		sem.Go(wg, func() {
			if err := fn(sample); err != nil {
				l.Lock()
				errs = append(errs, err)
				l.Unlock()
			}
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}
