package topo

import (
	"fmt"
	"math"

	"github.com/alanquits/parflow/databox"
	"gonum.org/v1/gonum/floats"
)

const (
	nparam  = 2    // Flint's law free parameters: c and p
	lambda0 = 1e-5 // initial Levenberg-Marquardt damping
	convTol = 1e-3 // fractional change in chi-square at convergence
)

// Fit summarizes a Flint's law parameter fit
type Fit struct {
	C, P          float64 // last accepted parameters
	ChiSq, ChiSq0 float64 // final and initial sum of squared residuals
	Iterations    int
	Accepted      int // number of accepted steps
}

func (f Fit) String() string {
	return fmt.Sprintf("Flints Law Fit: iterations %d (%d accepted); c = %f; p = %f; chisq %g -> %g",
		f.Iterations, f.Accepted, f.C, f.P, f.ChiSq0, f.ChiSq)
}

// lmCoeff rebuilds demflint for (c,p) and returns the chi-square together
// with the normal-equation matrix alpha = JᵀJ and vector beta = Jᵀr over all
// cells having a D8 child.
func (dr *drainage) lmCoeff(demflint *databox.Databox, c, p float64) (chisq float64, alpha [nparam][nparam]float64, beta [nparam]float64) {
	dr.flint(demflint, c, p)
	dem := dr.dem
	n := dem.Nx * dem.Ny
	df, dzdc, dzdp := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	for j := 0; j < dem.Ny; j++ {
		for i := 0; i < dem.Nx; i++ {
			if dr.child.At(i, j, 0) == NoChild {
				continue
			}
			a, ds := dr.area.At(i, j, 0), dr.ds.At(i, j, 0)
			ap := math.Pow(a, p)
			df = append(df, dem.At(i, j, 0)-demflint.At(i, j, 0))
			dzdc = append(dzdc, ap*ds)
			dzdp = append(dzdp, c*ap*math.Log(a)*ds)
		}
	}
	jac := [nparam][]float64{dzdc, dzdp}
	for k := 0; k < nparam; k++ {
		for l := 0; l < nparam; l++ {
			alpha[k][l] = floats.Dot(jac[k], jac[l])
		}
		beta[k] = floats.Dot(df, jac[k])
	}
	chisq = floats.Dot(df, df)
	return
}

// FlintsLawFit fits c and p of Flint's law to dem by Levenberg-Marquardt
// least squares, starting from (c0,p0), and returns the elevations
// reconstructed with the fitted parameters. Areas are in dx*dy units.
func FlintsLawFit(dem *databox.Databox, c0, p0 float64, maxiter int) (*databox.Databox, Fit) {
	dr := newDrainage(dem)
	for n := range dr.area.V {
		dr.area.V[n] *= dem.Dx * dem.Dy
	}
	demflint := databox.NewLike(dem)

	c, p, lambda := c0, p0, lambda0
	ochisq, alpha, beta := dr.lmCoeff(demflint, c, p)
	fit := Fit{C: c, P: p, ChiSq: ochisq, ChiSq0: ochisq}

	for fit.Iterations < maxiter && ochisq > 0. {
		var covar [nparam][]float64
		var da [nparam][]float64
		for k := 0; k < nparam; k++ {
			covar[k] = make([]float64, nparam)
			copy(covar[k], alpha[k][:])
			covar[k][k] *= 1. + lambda
			da[k] = []float64{beta[k]}
		}
		fit.Iterations++

		if err := GaussJordan(covar[:], da[:]); err != nil {
			lambda *= 10.
			continue
		}
		ctry, ptry := c+da[0][0], p+da[1][0]
		chisq, talpha, tbeta := dr.lmCoeff(demflint, ctry, ptry)
		dchisq := math.Abs(chisq-ochisq) / ochisq

		if chisq < ochisq {
			lambda *= .1
			ochisq, c, p = chisq, ctry, ptry
			alpha, beta = talpha, tbeta
			fit.Accepted++
		} else {
			lambda *= 10.
		}
		if dchisq < convTol {
			break
		}
	}

	fit.C, fit.P, fit.ChiSq = c, p, ochisq
	dr.flint(demflint, c, p)
	return demflint, fit
}
