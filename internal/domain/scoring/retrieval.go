package scoring

const (
	RetrievalTextBaseline   = 3000
	RetrievalHeadingCeiling = 12
	RetrievalAnchorCeiling  = 60
)

// RetrievalScore blends text richness, heading and anchor counts 0.5/0.3/0.2.
func RetrievalScore(text string, headings, anchors int) float64 {
	score := 0.5*TextRichness(text, RetrievalTextBaseline) +
		0.3*NormalizeCount(headings, RetrievalHeadingCeiling) +
		0.2*NormalizeCount(anchors, RetrievalAnchorCeiling)
	return RoundMetric(score)
}
