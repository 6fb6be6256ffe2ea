// Package pipeline runs a LEO audit: a fixed sequence of stages that fetch a
// page, score it and recommend improvements.
//
// Stages run in order: extraction, structure, semantic, retrieval,
// aggregation, recommendation. Each stage takes the record produced by the
// previous one and returns a new record; nothing is shared between runs.
//
// Collaborator failures never abort an audit. A failed fetch yields empty
// content and zero scores, a failed embedding falls back to the local
// embedding, a failed generation falls back to DefaultSuggestions and a
// failed write is logged. Only an invalid URL is reported as an error.
//
// Example:
//
//	p := pipeline.New(pipeline.Deps{Fetcher: fetch.NewClient(fetch.Config{}), Recorder: store},
//		pipeline.WithLogger(logger), pipeline.WithObserver(metrics))
//	rec, err := p.RunAudit(ctx, "https://example.com")
package pipeline
