package regressions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/reusee/tinyc/vars"
)

// SampleExtensions are the source extensions picked up by Discover.
var SampleExtensions = []string{".tiny", ".aw"}

type Sample struct {
	Path string
}

// FixturePath is where the expected outcome of the sample is kept.
func (s Sample) FixturePath() string {
	return s.Path + ".json"
}

func isSample(path string) bool {
	return slices.Contains(SampleExtensions, filepath.Ext(path))
}

// Discover returns the samples under root, or root itself if it is a sample file.
func Discover(root string) ([]Sample, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, wrap(err)
	}
	if !info.IsDir() {
		if !isSample(root) {
			return nil, wrap(fmt.Errorf("%s: not a sample", root))
		}
		return []Sample{{Path: root}}, nil
	}
	var samples []Sample
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isSample(path) {
			return nil
		}
		samples = append(samples, Sample{Path: path})
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return samples, nil
}

// Outcome is what running a sample produced.
// A sample that fails to compile has CompileError set and exit code 1.
type Outcome struct {
	Stdout       string `json:"stdout"`
	ExitCode     *int   `json:"exit_code,omitempty"`
	CompileError string `json:"compile_error,omitempty"`
}

func (o Outcome) Equal(other Outcome) bool {
	return o.Stdout == other.Stdout &&
		vars.DerefOrZero(o.ExitCode) == vars.DerefOrZero(other.ExitCode) &&
		o.CompileError == other.CompileError
}

func (o Outcome) String() string {
	var b strings.Builder
	if o.CompileError != "" {
		b.WriteString(o.CompileError)
	} else {
		b.WriteString(o.Stdout)
	}
	b.WriteString("\n----------\n")
	b.WriteString(strconv.Itoa(vars.DerefOrZero(o.ExitCode)))
	return b.String()
}

// ErrNoFixture is returned for samples that were never recorded.
var ErrNoFixture = errors.New("no fixture")

func readFixture(sample Sample) (Outcome, error) {
	content, err := os.ReadFile(sample.FixturePath())
	if errors.Is(err, fs.ErrNotExist) {
		return Outcome{}, ErrNoFixture
	}
	if err != nil {
		return Outcome{}, wrap(err)
	}
	var outcome Outcome
	if err := json.Unmarshal(content, &outcome); err != nil {
		return Outcome{}, wrap(fmt.Errorf("%s: %w", sample.FixturePath(), err))
	}
	return outcome, nil
}

func writeFixture(sample Sample, outcome Outcome) error {
	content, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return wrap(err)
	}
	content = append(content, '\n')
	if err := os.WriteFile(sample.FixturePath(), content, 0644); err != nil {
		return wrap(err)
	}
	return nil
}
