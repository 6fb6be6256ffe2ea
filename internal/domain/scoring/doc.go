// Package scoring holds the metric math of an audit.
//
// Every metric is a float in [0,1] rounded to four decimals. Rank applies a
// fixed weight table and is the only value scaled to 0..100.
package scoring
