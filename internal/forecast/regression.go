package forecast

// linearRegression fits y = slope*x + intercept by ordinary least squares.
// Both coefficients default to 0 when the denominator degenerates (empty or
// single-point input).
func linearRegression(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, x := range xs {
		sumX += x
		sumY += ys[i]
		sumXY += x * ys[i]
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator != 0 {
		slope = (n*sumXY - sumX*sumY) / denominator
	}
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
