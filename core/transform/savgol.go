// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Savitzky-Golay smoothing and differentiation. The interior of the signal
// is a convolution with least-squares polynomial coefficients, the first
// and last half-windows are evaluated from explicit polynomial fits so the
// curve doesn't droop at the plot edges.

// savgolCoeffs - convolution taps that evaluate the deriv'th derivative of
// a polyOrder least-squares fit at the centre of an odd-length window
func savgolCoeffs(window int, polyOrder int, deriv int) ([]float64, error) {
	if window%2 == 0 || window <= polyOrder {
		return nil, errors.Errorf("invalid savgol window %v for order %v", window, polyOrder)
	}
	if deriv > polyOrder {
		return nil, errors.Errorf("derivative order %v exceeds polynomial order %v", deriv, polyOrder)
	}

	half := window / 2

	// Vandermonde matrix over the window offsets
	a := mat.NewDense(window, polyOrder+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= polyOrder; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	// Pseudo-inverse via least squares: row deriv holds the taps
	eye := mat.NewDense(window, window, nil)
	for i := 0; i < window; i++ {
		eye.Set(i, i, 1)
	}

	var pinv mat.Dense
	if err := pinv.Solve(a, eye); err != nil {
		return nil, errors.Wrap(err, "savgol coefficient fit failed")
	}

	fact := 1.0
	for i := 2; i <= deriv; i++ {
		fact *= float64(i)
	}

	coeffs := make([]float64, window)
	for k := 0; k < window; k++ {
		coeffs[k] = pinv.At(deriv, k) * fact
	}
	return coeffs, nil
}

// polyFit - least squares polynomial coefficients c[0..order] for y sampled
// at x = 0, 1, ... len(y)-1
func polyFit(y []float64, order int) ([]float64, error) {
	n := len(y)
	a := mat.NewDense(n, order+1, nil)
	for i := 0; i < n; i++ {
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= float64(i)
		}
	}

	b := mat.NewVecDense(n, y)
	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "polynomial edge fit failed")
	}

	coeffs := make([]float64, order+1)
	for j := 0; j <= order; j++ {
		coeffs[j] = c.AtVec(j)
	}
	return coeffs, nil
}

// polyDerivEval - deriv'th derivative of the polynomial at x
func polyDerivEval(coeffs []float64, deriv int, x float64) float64 {
	sum := 0.0
	for j := deriv; j < len(coeffs); j++ {
		f := 1.0
		for i := 0; i < deriv; i++ {
			f *= float64(j - i)
		}

		p := 1.0
		for i := 0; i < j-deriv; i++ {
			p *= x
		}
		sum += coeffs[j] * f * p
	}
	return sum
}

// SavGolFilter - Savitzky-Golay filter of the fixed SGPolyOrder. window
// must be odd, > SGPolyOrder and <= len(y). Returns an error when the fit
// is degenerate, callers fall back to BoxFilter.
func SavGolFilter(y []float64, window int, deriv DerivOrder) ([]float64, error) {
	n := len(y)
	if window > n {
		return nil, errors.Errorf("savgol window %v exceeds signal length %v", window, n)
	}

	coeffs, err := savgolCoeffs(window, SGPolyOrder, int(deriv))
	if err != nil {
		return nil, err
	}

	half := window / 2
	result := make([]float64, n)

	for i := half; i < n-half; i++ {
		sum := 0.0
		for k := 0; k < window; k++ {
			sum += coeffs[k] * y[i-half+k]
		}
		result[i] = sum
	}

	// Edges: fit the first/last window exactly and evaluate the fitted
	// polynomial there instead of padding the signal
	head, err := polyFit(y[:window], SGPolyOrder)
	if err != nil {
		return nil, err
	}
	for i := 0; i < half; i++ {
		result[i] = polyDerivEval(head, int(deriv), float64(i))
	}

	tail, err := polyFit(y[n-window:], SGPolyOrder)
	if err != nil {
		return nil, err
	}
	for i := n - half; i < n; i++ {
		result[i] = polyDerivEval(tail, int(deriv), float64(i-(n-window)))
	}

	return result, nil
}
