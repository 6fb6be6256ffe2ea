// Package fetch retrieves the page an audit scores.
//
// Client is built on resty over a pooled transport. It makes exactly one
// attempt per call, caps the body at 10 MiB, rejects non-text payloads and
// decodes legacy charsets to UTF-8.
package fetch
