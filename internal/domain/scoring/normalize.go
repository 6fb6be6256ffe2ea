package scoring

import (
	"math"
	"strings"
	"unicode/utf8"
)

// NormalizeCount maps count onto [0,1] against a soft ceiling.
func NormalizeCount(count, ceiling int) float64 {
	if ceiling <= 0 || count <= 0 {
		return 0
	}
	return Clip(float64(count) / float64(ceiling))
}

// TextRichness scores the trimmed code-point length of text against baseline.
func TextRichness(text string, baseline int) float64 {
	if baseline <= 0 {
		return 0
	}
	return NormalizeCount(utf8.RuneCountInString(strings.TrimSpace(text)), baseline)
}

// Clip bounds v to [0,1]. NaN becomes 0.
func Clip(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// MetricPrecision is the number of decimals kept on every [0,1] metric.
const MetricPrecision = 4

// RoundMetric clips and rounds a metric value.
func RoundMetric(v float64) float64 {
	return Round(Clip(v), MetricPrecision)
}
