package upgrade

import (
	"log/slog"
	"time"

	"github.com/mesh-intelligence/prograde/internal/logging"
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// Options selects the optional steps and their parameters.
type Options struct {
	// Clean adds the table cleaning step. CleanTables lists the tables to
	// clear; when empty the simulator output tables are cleared.
	Clean       bool
	CleanTables []string

	// CutoffDate separates user lithologies that may be converted without
	// a parent from those that must have one.
	CutoffDate time.Time
}

// Pipeline runs upgrade steps in order. The first failure aborts the run.
type Pipeline struct {
	steps    []Upgrader
	worklist *Worklist
	log      *slog.Logger
}

// NewPipeline returns a pipeline running steps in the given order, sharing
// worklist.
func NewPipeline(worklist *Worklist, steps ...Upgrader) *Pipeline {
	return &Pipeline{
		steps:    steps,
		worklist: worklist,
		log:      logging.WithComponent("pipeline"),
	}
}

// Default builds the standard pipeline for m: optional cleaning, the
// lithosphere calculator, the bottom boundary, lithologies, stratigraphy,
// fault cuts, surface ages, and the reconciler.
func Default(m *model.Model, opts Options) (*Pipeline, error) {
	w := NewWorklist()
	var steps []Upgrader

	add := func(u Upgrader, err error) error {
		if err != nil {
			return err
		}
		steps = append(steps, u)
		return nil
	}

	if opts.Clean {
		if err := add(NewCleaner(m, w, opts.CleanTables)); err != nil {
			return nil, err
		}
	}
	for _, err := range []error{
		add(NewALCUpgrader(m, w)),
		add(NewBottomBoundaryUpgrader(m, w)),
		add(NewLithologyUpgrader(m, w, opts.CutoffDate)),
		add(NewStratigraphyUpgrader(m, w)),
		add(NewFaultCutUpgrader(m, w)),
		add(NewSurfaceAgeUpgrader(m, w)),
		add(NewReconciler(m, w)),
	} {
		if err != nil {
			return nil, err
		}
	}
	return NewPipeline(w, steps...), nil
}

// Steps returns the steps in run order.
func (p *Pipeline) Steps() []Upgrader {
	out := make([]Upgrader, len(p.steps))
	copy(out, p.steps)
	return out
}

// Worklist returns the shared worklist.
func (p *Pipeline) Worklist() *Worklist { return p.worklist }

// Run executes every step. It fails when a step fails or when releases are
// left in the worklist at the end.
func (p *Pipeline) Run() error {
	for i, s := range p.steps {
		p.log.Info("upgrade step started", "step", s.Name(), "index", i+1, "of", len(p.steps))
		if err := s.Upgrade(); err != nil {
			p.log.Error("upgrade step failed", "step", s.Name(), "error", err)
			return errors.Wrapf(err, "%s upgrade", s.Name())
		}
		p.log.Debug("upgrade step finished", "step", s.Name())
	}
	if n := p.worklist.Len(); n > 0 {
		return errors.ErrValidation.Newf("%d map releases left unreconciled", n)
	}
	return nil
}
