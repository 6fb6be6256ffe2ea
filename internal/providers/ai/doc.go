// Package ai provides the optional embedding and text generation
// collaborators.
//
// Client speaks the OpenAI-compatible /embeddings and /chat/completions
// endpoints. It is unavailable without an API key, and every failure is an
// ordinary error: callers fall back to LocalEmbedder or static text.
package ai
