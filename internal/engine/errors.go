package engine

import "fmt"

// ConnectionError marks the source or destination as unreachable. Fatal
// for the affected collection's migration.
type ConnectionError struct {
	Side string // "source" or "destination"
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection: %v", e.Side, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaInferenceError marks a collection whose sample could not produce
// a schema. Fatal for that collection only; sibling collections in a
// multi-collection run continue.
type SchemaInferenceError struct {
	Collection string
	Err        error
}

func (e *SchemaInferenceError) Error() string {
	return fmt.Sprintf("schema inference for %s: %v", e.Collection, e.Err)
}

func (e *SchemaInferenceError) Unwrap() error { return e.Err }

// BatchInsertError records one rejected batch. The batch was rolled back
// in full; migration proceeds to the next batch unless the consecutive
// failure threshold escalates it.
type BatchInsertError struct {
	Collection string
	Batch      int
	Err        error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("batch %d of %s rejected: %v", e.Batch, e.Collection, e.Err)
}

func (e *BatchInsertError) Unwrap() error { return e.Err }

// TooManyFailuresError escalates repeated batch rejections to a fatal
// condition for the collection. Already-committed batches stay committed.
type TooManyFailuresError struct {
	Collection string
	Failures   int
	Last       error
}

func (e *TooManyFailuresError) Error() string {
	return fmt.Sprintf("%s: %d consecutive batch failures, giving up (last: %v)",
		e.Collection, e.Failures, e.Last)
}

func (e *TooManyFailuresError) Unwrap() error { return e.Last }
