package scoring

import "gonum.org/v1/gonum/stat"

// Ceilings for the structure sub-signals.
const (
	HeadingCeiling        = 10
	MetaCeiling           = 15
	StructuredDataCeiling = 10
	OpenGraphCeiling      = 10
)

// StructureCounts are the markup counts the structure score uses.
type StructureCounts struct {
	Headings       int
	Metas          int
	StructuredData int
	OpenGraph      int
}

// StructureScore is the unweighted mean of the four normalized counts.
func StructureScore(c StructureCounts) float64 {
	signals := []float64{
		NormalizeCount(c.Headings, HeadingCeiling),
		NormalizeCount(c.Metas, MetaCeiling),
		NormalizeCount(c.StructuredData, StructuredDataCeiling),
		NormalizeCount(c.OpenGraph, OpenGraphCeiling),
	}
	return RoundMetric(stat.Mean(signals, nil))
}
