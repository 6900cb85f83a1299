package billing

import "slices"

// CalculateMode finds the most frequent value in a slice of integers and how
// often it occurs. Ties break deterministically to the smallest value; this
// tie-break is part of the contract, not an accident of iteration order.
// Returns (0, 0) for an empty slice. Callers treat count < 2 as "no mode".
func CalculateMode(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}

	freq := make(map[int]int, len(values))
	for _, v := range values {
		freq[v]++
	}

	mode := values[0]
	best := 0
	for v, count := range freq {
		if count > best || (count == best && v < mode) {
			mode = v
			best = count
		}
	}
	return mode, best
}

// CalculateMedianDiscrete finds the median value in a slice of integers.
func CalculateMedianDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]int, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}

// CalculateMedianContinuous finds the median value in a slice of floats.
func CalculateMedianContinuous(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// CalculateVariance computes the population variance (divide by N, not N-1).
// Returns 0 for an empty slice.
func CalculateVariance(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
