package rollbias

import "math"

// chiSquare computes the Pearson chi-square statistic for observed counts
// against per-bin expected counts. Σ (observed_i - expected_i)^2 / expected_i.
func chiSquare(counts []int, expected []float64) float64 {
	var x2 float64
	for i, o := range counts {
		diff := float64(o) - expected[i]
		x2 += (diff * diff) / expected[i]
	}
	return x2
}

// chiSquareUniform is chiSquare with the same expected count in every bin.
func chiSquareUniform(counts []int, expected float64) float64 {
	var x2 float64
	for _, o := range counts {
		diff := float64(o) - expected
		x2 += (diff * diff) / expected
	}
	return x2
}

// chiSquarePValueEven computes the exact upper-tail p-value P(χ² ≥ x2) for
// an even number of degrees of freedom df = 2m via the closed-form series
//
//	P(χ² ≥ x2) = e^{-x2/2} * sum_{j=0}^{m-1} (x2/2)^j / j!
//
// accumulated with a term recurrence.
func chiSquarePValueEven(x2 float64, df int) float64 {
	m := df / 2
	t := math.Exp(-x2 / 2.0)
	sum := 1.0 // j = 0
	term := 1.0
	for j := 1; j < m; j++ {
		term *= x2 / (2.0 * float64(j))
		sum += term
	}
	return t * sum
}

// chiSquarePValueApprox approximates the upper-tail p-value for arbitrary
// df using the Wilson-Hilferty cube-root transform to a standard normal,
// evaluated via math.Erf. Accuracy improves with df; fine for df >= 1.
func chiSquarePValueApprox(x2 float64, df int) float64 {
	nu := float64(df)
	z := (math.Pow(x2/nu, 1.0/3.0) - (1.0 - 2.0/(9.0*nu))) / math.Sqrt(2.0/(9.0*nu))
	Phi := 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
	return 1.0 - Phi
}

// p-value of the chi-squared distribution: exact series for even df,
// otherwise the approximation.
func chiSquarePValue(x2 float64, df int) float64 {
	if df <= 0 {
		return 1.0 // trivial
	}
	if df%2 == 0 {
		return chiSquarePValueEven(x2, df)
	}
	return chiSquarePValueApprox(x2, df)
}
