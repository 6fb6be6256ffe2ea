package scoring

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultChunkSize  = 500
	DefaultDimensions = 64
)

// ChunkText collapses whitespace and cuts text into consecutive pieces of
// size code points. The last piece may be shorter.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// EmbedLocal builds the deterministic offline embedding of chunk: every UTF-8
// byte b adds (b mod 32)/31 to dimension i mod dims, then the vector is
// L2-normalized. An empty chunk yields the zero vector.
func EmbedLocal(chunk string, dims int) []float64 {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	vec := make([]float64, dims)
	for i, b := range []byte(chunk) {
		vec[i%dims] += float64(b%32) / 31.0
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

// EmbedLocalAll embeds every chunk with EmbedLocal.
func EmbedLocalAll(chunks []string, dims int) [][]float64 {
	out := make([][]float64, len(chunks))
	for i, c := range chunks {
		out[i] = EmbedLocal(c, dims)
	}
	return out
}

// CosineSimilarity of a and b; 0 when either is a zero vector or the
// lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// AverageCosineSimilarity averages pairwise similarity over all ordered
// pairs i != j. No vectors score 0 and a single vector scores 1.
func AverageCosineSimilarity(vectors [][]float64) float64 {
	switch len(vectors) {
	case 0:
		return 0
	case 1:
		return 1
	}

	// Cosine is symmetric, so the mean over i < j equals the mean over i != j.
	var sum float64
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += CosineSimilarity(vectors[i], vectors[j])
			pairs++
		}
	}
	mean := sum / float64(pairs)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0
	}
	return RoundMetric(mean)
}
