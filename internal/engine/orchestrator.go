package engine

import (
	"context"
	"log"
	"time"

	"mongolift/internal/convert"
	"mongolift/internal/dest"
	"mongolift/internal/schema"
	"mongolift/internal/source"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// Mode determines what gets migrated.
type Mode int

const (
	// ModeFull migrates both schema and data.
	ModeFull Mode = iota
	// ModeSchemaOnly migrates schema only.
	ModeSchemaOnly
	// ModeDataOnly migrates data only (assumes tables exist).
	ModeDataOnly
)

// ModeFromFlags maps the --schema-only/--data-only flags to a Mode.
func ModeFromFlags(schemaOnly, dataOnly bool) Mode {
	switch {
	case schemaOnly && !dataOnly:
		return ModeSchemaOnly
	case dataOnly && !schemaOnly:
		return ModeDataOnly
	default:
		return ModeFull
	}
}

// state is the per-collection pipeline state. Transitions:
// Idle → Fetching → Converting → Inserting → Committed (loop) → Done,
// with Failed terminal reachable from any state.
type state int

const (
	stateIdle state = iota
	stateFetching
	stateConverting
	stateInserting
	stateCommitted
	stateDone
	stateFailed
)

// Options tune one migration run.
type Options struct {
	BatchSize        int
	SampleSize       int
	MaxDepth         int
	MaxBatchFailures int // consecutive batch failures before escalating
	Truncate         bool
	DropTables       bool
	Indexes          map[string][]schema.Index
	// OnProgress, when set, receives the running row total per collection
	// after every committed batch.
	OnProgress func(collection string, migrated int)
}

const (
	defaultBatchSize        = 1000
	defaultSampleSize       = 100
	defaultMaxDepth         = 2
	defaultMaxBatchFailures = 3
)

// Orchestrator drives per-collection pipelines: fetch → convert → insert
// → commit, batch by batch, with failure containment at batch
// granularity.
type Orchestrator struct {
	source source.Source
	dest   *dest.Executor
	opts   Options
}

func New(src source.Source, dst *dest.Executor, opts Options) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.MaxBatchFailures <= 0 {
		opts.MaxBatchFailures = defaultMaxBatchFailures
	}
	return &Orchestrator{source: src, dest: dst, opts: opts}
}

// Run migrates the given collections as independent pipelines, at most
// parallel at a time. A fatal error in one collection never aborts the
// others; every outcome lands in the run report.
func (o *Orchestrator) Run(ctx context.Context, collections []string, mode Mode, parallel int) *RunReport {
	start := time.Now()
	if parallel < 1 {
		parallel = 1
	}

	reports := make([]CollectionReport, len(collections))
	var g errgroup.Group
	g.SetLimit(parallel)
	for i, coll := range collections {
		i, coll := i, coll
		g.Go(func() error {
			reports[i] = o.MigrateCollection(ctx, coll, mode)
			return nil
		})
	}
	_ = g.Wait()

	return &RunReport{Collections: reports, Duration: time.Since(start)}
}

// MigrateCollection runs the full pipeline for one collection and
// returns its summary.
func (o *Orchestrator) MigrateCollection(ctx context.Context, coll string, mode Mode) CollectionReport {
	start := time.Now()
	rep := CollectionReport{Collection: coll}
	defer func() { rep.Duration = time.Since(start) }()

	// Schema inference runs in every mode: data-only still needs the
	// column ordering for row conversion.
	tbl, err := o.inferSchema(ctx, coll)
	if err != nil {
		rep.Err = err
		return rep
	}

	if mode == ModeFull || mode == ModeSchemaOnly {
		if err := o.createSchema(ctx, tbl); err != nil {
			rep.Err = err
			return rep
		}
	}

	if mode == ModeDataOnly && o.opts.Truncate {
		stmt := o.dest.Dialect().TruncateQuery(coll)
		if err := o.dest.ExecDDL(ctx, stmt); err != nil {
			log.Printf("Warning: failed to truncate %s: %v (continuing...)", coll, err)
		}
	}

	if mode == ModeFull || mode == ModeDataOnly {
		o.migrateData(ctx, tbl, &rep)
	}
	return rep
}

// InferSchema samples the collection and resolves its table schema.
// Exposed for dry runs that only want the DDL.
func (o *Orchestrator) InferSchema(ctx context.Context, coll string) (*schema.Table, error) {
	return o.inferSchema(ctx, coll)
}

func (o *Orchestrator) inferSchema(ctx context.Context, coll string) (*schema.Table, error) {
	docs, err := o.source.Sample(ctx, coll, o.opts.SampleSize)
	if err != nil {
		return nil, &ConnectionError{Side: "source", Err: err}
	}
	stats := schema.Collect(docs, o.opts.MaxDepth)
	tbl, err := schema.Resolve(coll, stats)
	if err != nil {
		return nil, &SchemaInferenceError{Collection: coll, Err: err}
	}
	tbl.Indexes = o.opts.Indexes[coll]
	return tbl, nil
}

func (o *Orchestrator) createSchema(ctx context.Context, tbl *schema.Table) error {
	d := o.dest.Dialect()
	if o.opts.DropTables {
		if err := o.dest.ExecDDL(ctx, d.DropTableQuery(tbl.Collection)); err != nil {
			log.Printf("Warning: failed to drop %s: %v (continuing...)", tbl.Collection, err)
		}
	}
	if err := o.dest.ExecDDL(ctx, schema.CreateTableSQL(d, tbl)); err != nil {
		return &ConnectionError{Side: "destination", Err: err}
	}
	for _, stmt := range schema.CreateIndexSQL(d, tbl) {
		if err := o.dest.ExecDDL(ctx, stmt); err != nil {
			return &ConnectionError{Side: "destination", Err: err}
		}
	}
	return nil
}

// migrateData is the batch state machine. Failure containment once
// inside Inserting is at batch granularity: a rejected batch rolls back
// whole and the pipeline advances to the next Fetching step. Committed
// batches stay committed; there is no cross-batch rollback, and
// cancellation is observed only between batches.
func (o *Orchestrator) migrateData(ctx context.Context, tbl *schema.Table, rep *CollectionReport) {
	insertSQL := schema.InsertSQL(o.dest.Dialect(), tbl)

	cur, err := o.source.Stream(ctx, tbl.Collection, o.opts.BatchSize)
	if err != nil {
		rep.Err = &ConnectionError{Side: "source", Err: err}
		return
	}
	defer cur.Close(context.WithoutCancel(ctx))

	var (
		docs        []bson.D
		rows        [][]any
		consecutive int
		lastFailure error
	)

	for st := stateFetching; st != stateDone && st != stateFailed; {
		switch st {
		case stateFetching:
			docs, err = cur.Next(ctx)
			switch {
			case err != nil:
				rep.Err = &ConnectionError{Side: "source", Err: err}
				st = stateFailed
			case len(docs) == 0:
				st = stateDone
			default:
				st = stateConverting
			}

		case stateConverting:
			rows = rows[:0]
			for _, doc := range docs {
				row, warnings, err := convert.Document(doc, tbl)
				rep.Warnings += len(warnings)
				if err != nil {
					rep.RowsSkipped++
					continue
				}
				rows = append(rows, row)
			}
			if len(rows) == 0 {
				// Every document dropped; nothing to insert.
				st = stateCommitted
				continue
			}
			st = stateInserting

		case stateInserting:
			inserted, err := o.insertBatch(ctx, tbl.Collection, insertSQL, rows)
			if err != nil {
				lastFailure = &BatchInsertError{Collection: tbl.Collection, Batch: rep.Batches + rep.FailedBatches + 1, Err: err}
				rep.FailedBatches++
				consecutive++
				log.Printf("Warning: %v", lastFailure)
				if consecutive >= o.opts.MaxBatchFailures {
					rep.Err = &TooManyFailuresError{
						Collection: tbl.Collection,
						Failures:   consecutive,
						Last:       lastFailure,
					}
					st = stateFailed
					continue
				}
				st = stateFetching
				continue
			}
			rep.RowsMigrated += inserted
			st = stateCommitted

		case stateCommitted:
			rep.Batches++
			consecutive = 0
			if o.opts.OnProgress != nil {
				o.opts.OnProgress(tbl.Collection, rep.RowsMigrated)
			}
			// Cancellation takes effect only at batch boundaries; the
			// committed transaction above is never abandoned mid-flight.
			if ctx.Err() != nil {
				rep.Err = ctx.Err()
				st = stateDone
				continue
			}
			st = stateFetching
		}
	}
}

// insertBatch opens one transaction for the whole batch and binds every
// row to the prepared insert. Any rejection rolls back the entire batch.
func (o *Orchestrator) insertBatch(ctx context.Context, table, insertSQL string, rows [][]any) (int, error) {
	batch, err := o.dest.BeginBatch(ctx, table, insertSQL)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if err := batch.Insert(ctx, row); err != nil {
			_ = batch.Rollback()
			return 0, err
		}
	}
	if err := batch.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
