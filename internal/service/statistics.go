package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/migdam/graphs/internal/state"
)

// Shared statistics helpers used by the profiler and the analytics modules.

// columnFloats returns the parseable numeric values of a column, skipping
// missing and non-numeric cells.
func columnFloats(ds *state.Dataset, colIdx int) []float64 {
	values := []float64{}
	for _, row := range ds.Rows {
		if colIdx >= len(row) || state.IsMissing(row[colIdx]) {
			continue
		}
		if val, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx]), 64); err == nil {
			values = append(values, val)
		}
	}
	return values
}

// pairedFloats returns the values of two columns restricted to rows where
// both parse as numbers.
func pairedFloats(ds *state.Dataset, col1Idx, col2Idx int) ([]float64, []float64) {
	x := []float64{}
	y := []float64{}
	for _, row := range ds.Rows {
		if col1Idx >= len(row) || col2Idx >= len(row) {
			continue
		}
		if state.IsMissing(row[col1Idx]) || state.IsMissing(row[col2Idx]) {
			continue
		}
		v1, err1 := strconv.ParseFloat(strings.TrimSpace(row[col1Idx]), 64)
		v2, err2 := strconv.ParseFloat(strings.TrimSpace(row[col2Idx]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		x = append(x, v1)
		y = append(y, v2)
	}
	return x, y
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDevOf returns the sample standard deviation.
func stdDevOf(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// varianceOf returns the sample variance.
func varianceOf(values []float64) float64 {
	sd := stdDevOf(values)
	return sd * sd
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. Returns 0 when either series is degenerate.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0
	}
	meanX := meanOf(x)
	meanY := meanOf(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// quantile computes the q-quantile of a sorted series using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// skewnessOf returns the adjusted Fisher-Pearson skewness coefficient.
func skewnessOf(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	m := meanOf(values)
	var m2, m3 float64
	for _, v := range values {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// histogramOf bins values into equal-width bins over [min, max].
func histogramOf(values []float64, numBins int) []int {
	bins := make([]int, numBins)
	if len(values) == 0 || numBins == 0 {
		return bins
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	width := (maxVal - minVal) / float64(numBins)
	if width == 0 {
		width = 1
	}
	for _, v := range values {
		bin := int((v - minVal) / width)
		if bin >= numBins {
			bin = numBins - 1
		}
		bins[bin]++
	}
	return bins
}

// linearFit fits y = slope*x + intercept by least squares and returns the
// coefficient of determination alongside the parameters.
func linearFit(x, y []float64) (slope, intercept, r2 float64) {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0, 0, 0
	}
	meanX := meanOf(x)
	meanY := meanOf(y)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}
	if sxx == 0 {
		return 0, meanY, 0
	}
	slope = sxy / sxx
	intercept = meanY - slope*meanX

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := slope*x[i] + intercept
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 0
	}
	return slope, intercept, 1 - ssRes/ssTot
}

// distinctCount counts distinct non-missing values of a column.
func distinctCount(ds *state.Dataset, colIdx int) int {
	seen := make(map[string]struct{})
	for _, row := range ds.Rows {
		if colIdx >= len(row) || state.IsMissing(row[colIdx]) {
			continue
		}
		seen[row[colIdx]] = struct{}{}
	}
	return len(seen)
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
