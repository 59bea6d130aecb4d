// Package seed loads the demo marketplace into a record store
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

//go:embed demo.yaml
var demo []byte

// InterviewFixture is an interview whose date is InDays after load time when
// dateTime is not given
type InterviewFixture struct {
	domain.Interview `yaml:",inline"`
	InDays           int `yaml:"inDays"`
}

// Dataset is a full fixture file
type Dataset struct {
	Users         []domain.User         `yaml:"users"`
	Organizations []domain.Organization `yaml:"organizations"`
	Candidates    []domain.Candidate    `yaml:"candidates"`
	Jobs          []domain.Job          `yaml:"jobs"`
	Applications  []domain.Application  `yaml:"applications"`
	Interviews    []InterviewFixture    `yaml:"interviews"`
}

// Result counts what a load wrote
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Demo parses the built-in demo dataset
func Demo() (Dataset, error) {
	return Parse(demo)
}

// Parse decodes a fixture file
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("seed: parse: %w", err)
	}
	return ds, nil
}

// Loader writes datasets through the repositories
type Loader struct {
	repos  *repository.Repositories
	logger *logging.Logger
	clock  func() time.Time
}

// Option configures Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// WithClock sets the clock used for relative interview dates
func WithClock(clock func() time.Time) Option {
	return func(ld *Loader) {
		ld.clock = clock
	}
}

// NewLoader creates a Loader
func NewLoader(repos *repository.Repositories, opts ...Option) *Loader {
	ld := &Loader{
		repos:  repos,
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load inserts every entity of ds. Entities whose id already exists are
// left untouched, so loading twice is safe
func (ld *Loader) Load(ctx context.Context, ds Dataset) (Result, error) {
	var total Result
	now := ld.clock().UTC()

	interviews := make([]domain.Interview, 0, len(ds.Interviews))
	for _, f := range ds.Interviews {
		iv := f.Interview
		if iv.DateTime.IsZero() {
			iv.DateTime = now.Add(time.Duration(f.InDays) * 24 * time.Hour).Truncate(time.Hour)
		}
		interviews = append(interviews, iv)
	}

	steps := []func() (Result, error){
		func() (Result, error) { return insert(ctx, ld.repos.Users, ds.Users) },
		func() (Result, error) { return insert(ctx, ld.repos.Organizations, ds.Organizations) },
		func() (Result, error) { return insert(ctx, ld.repos.Candidates, ds.Candidates) },
		func() (Result, error) { return insert(ctx, ld.repos.Jobs, ds.Jobs) },
		func() (Result, error) { return insert(ctx, ld.repos.Applications, ds.Applications) },
		func() (Result, error) { return insert(ctx, ld.repos.Interviews, interviews) },
	}
	for _, step := range steps {
		r, err := step()
		total.Created += r.Created
		total.Skipped += r.Skipped
		if err != nil {
			return total, err
		}
	}

	ld.logger.Info("seed data loaded", "created", total.Created, "skipped", total.Skipped)
	return total, nil
}

func insert[T any](ctx context.Context, c *repository.Collection[T], items []T) (Result, error) {
	var r Result
	for _, item := range items {
		err := c.Create(ctx, item)
		switch {
		case err == nil:
			r.Created++
		case errors.Is(err, repository.ErrConflict):
			r.Skipped++
		default:
			return r, fmt.Errorf("seed: create %s: %w", c.Kind(), err)
		}
	}
	return r, nil
}
