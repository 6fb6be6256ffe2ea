// Package audit defines the record threaded through the audit pipeline and
// its report form.
//
// Metrics are stored in [0,1]; only the rank is on the 0 to 100 scale. A
// Record is never mutated in place, so a stage can hand its input to another
// goroutine or keep it for comparison without copying.
package audit
