package engine

import "time"

// CollectionReport is the externally observed outcome of one collection's
// migration. Counters are threaded through the pipeline and aggregated
// here; there is no shared mutable progress state.
type CollectionReport struct {
	Collection    string
	RowsMigrated  int
	RowsSkipped   int
	Warnings      int
	Batches       int
	FailedBatches int
	Duration      time.Duration
	Err           error
}

// Status renders a short summary status line.
func (r CollectionReport) Status() string {
	switch {
	case r.Err != nil:
		return "FAILED"
	case r.FailedBatches > 0:
		return "PARTIAL"
	case r.RowsSkipped > 0 || r.Warnings > 0:
		return "OK (with warnings)"
	default:
		return "OK"
	}
}

// RunReport enumerates every collection's outcome independently; one
// failed collection never hides or aborts its siblings.
type RunReport struct {
	Collections []CollectionReport
	Duration    time.Duration
}

func (r *RunReport) TotalRows() int {
	total := 0
	for _, c := range r.Collections {
		total += c.RowsMigrated
	}
	return total
}

func (r *RunReport) TotalSkipped() int {
	total := 0
	for _, c := range r.Collections {
		total += c.RowsSkipped
	}
	return total
}

func (r *RunReport) TotalWarnings() int {
	total := 0
	for _, c := range r.Collections {
		total += c.Warnings
	}
	return total
}

func (r *RunReport) Failed() int {
	failed := 0
	for _, c := range r.Collections {
		if c.Err != nil {
			failed++
		}
	}
	return failed
}
