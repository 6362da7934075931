package curvefit

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Fit parameters.
const (
	SampleCount = 101
	Iterations  = 1000
	MaxStepNorm = 0.01

	InitialC1 = 0.35
	InitialC2 = 0.17
	InitialR  = 0.5

	MaxC = 0.5
)

// Observer receives the RMS residual before the first iteration (iteration
// 0) and after each iteration.
type Observer func(iteration int, rms float64)

// Option configures Fit.
type Option func(*fitter)

// WithObserver reports the residual of every iteration to o.
func WithObserver(o Observer) Option {
	return func(f *fitter) { f.observe = o }
}

// WithIterations overrides the iteration budget.
func WithIterations(n int) Option {
	return func(f *fitter) { f.iterations = n }
}

type fitter struct {
	iterations int
	observe    Observer
	stress     []float64
	target     []float64
}

// Sample returns SampleCount equally spaced stresses between
// ReferenceStress and the stress where the curve reaches MinimumPorosity,
// and the porosity at each.
func Sample(s SoilMechanics) (stress, porosity []float64) {
	hi := s.MaxStress()
	stress = make([]float64, SampleCount)
	floats.Span(stress, ReferenceStress, hi)
	porosity = make([]float64, SampleCount)
	for i, x := range stress {
		porosity[i] = s.Porosity(x)
	}
	return stress, porosity
}

// Fit returns the Double-Exponential curve closest to s in the least squares
// sense over the sampled range. The surface and minimum porosities are
// carried over; C1, C2 and R are fitted by a fixed number of Gauss-Newton
// iterations. Each step is limited to MaxStepNorm and halved while it would
// increase the residual, so the residual never grows. The halving departs
// from plain Gauss-Newton, which takes every full step.
func Fit(s SoilMechanics, opts ...Option) (DoubleExponential, error) {
	if err := s.Validate(); err != nil {
		return DoubleExponential{}, err
	}
	f := &fitter{iterations: Iterations}
	for _, o := range opts {
		o(f)
	}
	f.stress, f.target = Sample(s)

	d := DoubleExponential{
		SurfacePorosity: s.SurfacePorosity,
		MinPorosity:     MinimumPorosity,
		C1:              InitialC1,
		C2:              InitialC2,
		R:               InitialR,
	}
	rms := f.rms(d)
	if f.observe != nil {
		f.observe(0, rms)
	}
	for it := 1; it <= f.iterations; it++ {
		d, rms = f.step(d, rms)
		if f.observe != nil {
			f.observe(it, rms)
		}
	}
	return d, nil
}

func (f *fitter) rms(d DoubleExponential) float64 {
	var sum float64
	for i, x := range f.stress {
		r := f.target[i] - d.Porosity(x)
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(f.stress)))
}

// step performs one Gauss-Newton update and returns the new parameters with
// their residual.
func (f *fitter) step(d DoubleExponential, rms float64) (DoubleExponential, float64) {
	jtj := mat.NewSymDense(3, nil)
	jtr := mat.NewVecDense(3, nil)
	for i, x := range f.stress {
		g := d.gradient(x)
		r := f.target[i] - d.Porosity(x)
		for a := 0; a < 3; a++ {
			jtr.SetVec(a, jtr.AtVec(a)+g[a]*r)
			for b := a; b < 3; b++ {
				jtj.SetSym(a, b, jtj.At(a, b)+g[a]*g[b])
			}
		}
	}

	delta, ok := solve(jtj, jtr)
	if !ok {
		return d, rms
	}
	if n := floats.Norm(delta, 2); n > MaxStepNorm {
		floats.Scale(MaxStepNorm/n, delta)
	}

	for halving := 0; halving < 20; halving++ {
		next := d
		next.C1 = clamp(d.C1+delta[0], 0, MaxC)
		next.C2 = clamp(d.C2+delta[1], 0, MaxC)
		next.R = clamp(d.R+delta[2], 0, 1)
		if nextRMS := f.rms(next); nextRMS <= rms {
			return next, nextRMS
		}
		floats.Scale(0.5, delta)
	}
	return d, rms
}

// solve solves the normal equations by Cholesky factorisation. A singular
// system is retried once with a small diagonal damping.
func solve(a *mat.SymDense, b *mat.VecDense) ([]float64, bool) {
	var chol mat.Cholesky
	if !chol.Factorize(a) {
		damped := mat.NewSymDense(3, nil)
		damped.CopySym(a)
		for i := 0; i < 3; i++ {
			damped.SetSym(i, i, a.At(i, i)*(1+1e-6)+1e-12)
		}
		if !chol.Factorize(damped) {
			return nil, false
		}
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return nil, false
	}
	return []float64{x.AtVec(0), x.AtVec(1), x.AtVec(2)}, true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
