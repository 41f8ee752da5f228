package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"mongolift/internal/dest"
	"mongolift/internal/dialect"
	"mongolift/internal/engine"
	"mongolift/internal/schema"
	"mongolift/internal/source"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	collections      []string
	allCollections   bool
	schemaOnly       bool
	dataOnly         bool
	truncate         bool
	dropTables       bool
	dryRun           bool
	batchSize        int
	sampleSize       int
	maxDepth         int
	parallel         int
	maxBatchFailures int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate collections to the destination database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateMigrateFlags(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		uri := viper.GetString("source.uri")
		dbName := viper.GetString("source.database")
		if dbName == "" {
			return fmt.Errorf("source.database is required (via --database flag or config)")
		}

		fmt.Println("🔍 Connecting to MongoDB...")
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		src, err := source.Connect(connectCtx, uri, dbName)
		cancel()
		if err != nil {
			return err
		}
		defer src.Close(context.Background())
		fmt.Println("   ✓ Connected to MongoDB")

		targets, err := resolveTargets(ctx, src)
		if err != nil {
			return err
		}
		fmt.Printf("📊 Found %d collection(s): %v\n", len(targets), targets)

		indexes, err := LoadIndexConfigs()
		if err != nil {
			return err
		}

		d := dialect.GetDialect(viper.GetString("destination.driver"))
		opts := engine.Options{
			BatchSize:        viper.GetInt("settings.batch_size"),
			SampleSize:       viper.GetInt("settings.sample_size"),
			MaxDepth:         viper.GetInt("settings.max_depth"),
			MaxBatchFailures: viper.GetInt("settings.max_batch_failures"),
			Truncate:         truncate,
			DropTables:       dropTables,
			Indexes:          indexes,
		}

		if dryRun {
			return dryRunSchemas(ctx, src, d, targets, opts)
		}

		fmt.Printf("🔗 Connecting to %s destination...\n", d.Name())
		dst, err := dest.Open(d, viper.GetString("destination.dsn"))
		if err != nil {
			return err
		}
		defer dst.Close()
		fmt.Println("   ✓ Connected to destination")

		mode := engine.ModeFromFlags(schemaOnly, dataOnly)
		start := time.Now()

		// Progress bars only make sense when rows move.
		if mode != engine.ModeSchemaOnly {
			opts.OnProgress = startProgress(ctx, src, targets)
		}

		orch := engine.New(src, dst, opts)
		report := orch.Run(ctx, targets, mode, viper.GetInt("settings.parallel"))
		uiprogress.Stop()

		printSummary(report, time.Since(start))
		if report.Failed() == len(report.Collections) {
			return fmt.Errorf("all %d collection(s) failed to migrate", report.Failed())
		}
		return nil
	},
}

func validateMigrateFlags() error {
	if len(collections) == 0 && !allCollections {
		return fmt.Errorf("either --collections <NAMES> or --all must be specified")
	}
	if len(collections) > 0 && allCollections {
		return fmt.Errorf("--collections and --all are mutually exclusive")
	}
	if schemaOnly && dataOnly {
		return fmt.Errorf("--schema-only and --data-only are mutually exclusive")
	}
	if truncate && !dataOnly {
		return fmt.Errorf("--truncate requires --data-only")
	}
	if dropTables && dataOnly {
		return fmt.Errorf("--drop-tables conflicts with --data-only")
	}
	if viper.GetInt("settings.batch_size") <= 0 {
		return fmt.Errorf("settings.batch_size must be greater than 0")
	}
	if viper.GetInt("settings.sample_size") <= 0 {
		return fmt.Errorf("settings.sample_size must be greater than 0")
	}
	return nil
}

func resolveTargets(ctx context.Context, src *source.Mongo) ([]string, error) {
	if allCollections {
		names, err := src.Collections(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no collections found in database %q", viper.GetString("source.database"))
		}
		return names, nil
	}
	return collections, nil
}

// dryRunSchemas prints the DDL that a real run would execute, without
// touching the destination.
func dryRunSchemas(ctx context.Context, src *source.Mongo, d dialect.Dialect, targets []string, opts engine.Options) error {
	log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
	orch := engine.New(src, nil, opts)
	for _, coll := range targets {
		tbl, err := orch.InferSchema(ctx, coll)
		if err != nil {
			fmt.Printf("-- %s: %v\n", coll, err)
			continue
		}
		fmt.Printf("-- collection %s (%d columns)\n", coll, len(tbl.Columns))
		fmt.Println(schema.CreateTableSQL(d, tbl) + ";")
		for _, stmt := range schema.CreateIndexSQL(d, tbl) {
			fmt.Println(stmt + ";")
		}
	}
	return nil
}

// startProgress sets up one bar per collection, sized by the source
// count, and returns the orchestrator progress callback.
func startProgress(ctx context.Context, src *source.Mongo, targets []string) func(string, int) {
	bars := make(map[string]*uiprogress.Bar, len(targets))
	uiprogress.Start()
	for _, coll := range targets {
		total, err := src.Count(ctx, coll)
		if err != nil || total == 0 {
			continue
		}
		bar := uiprogress.AddBar(int(total)).AppendCompleted().PrependElapsed()
		name := coll
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-20s", name)
		})
		bars[coll] = bar
	}
	return func(coll string, migrated int) {
		if bar, ok := bars[coll]; ok {
			bar.Set(migrated)
		}
	}
}

func printSummary(report *engine.RunReport, elapsed time.Duration) {
	fmt.Println("\n📊 Migration Summary:")
	for i, r := range report.Collections {
		icon := "✓"
		if r.Err != nil {
			icon = "!"
		}
		fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows, %d skipped, %d warnings - %s\n",
			icon, i+1, len(report.Collections), r.Collection,
			r.RowsMigrated, r.RowsSkipped, r.Warnings, r.Status())
		if r.Err != nil {
			fmt.Printf("    └ Error: %v\n", r.Err)
		}
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total rows migrated: %d (skipped %d, warnings %d)\n",
		report.TotalRows(), report.TotalSkipped(), report.TotalWarnings())
	fmt.Printf("Destination: %s (%s)\n",
		viper.GetString("destination.dsn"), viper.GetString("destination.driver"))
	log.Printf("Migration Done! Time Elapsed: %s", elapsed)
}

func init() {
	RootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringSliceVarP(&collections, "collections", "t", []string{}, "Specific collections to migrate (comma-separated)")
	migrateCmd.Flags().BoolVar(&allCollections, "all", false, "Migrate all collections in the database")
	migrateCmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Only migrate schema (CREATE TABLE), skip data")
	migrateCmd.Flags().BoolVar(&dataOnly, "data-only", false, "Only migrate data, assume tables exist")
	migrateCmd.Flags().BoolVar(&truncate, "truncate", false, "Delete existing rows before inserting (data-only)")
	migrateCmd.Flags().BoolVar(&dropTables, "drop-tables", false, "Drop existing tables before creating schema")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved DDL without writing anything")
	migrateCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Documents per batch transaction (overrides config)")
	migrateCmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Documents sampled for schema inference (overrides config)")
	migrateCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum nesting depth flattened into columns (overrides config)")
	migrateCmd.Flags().IntVar(&parallel, "parallel", 0, "Collections migrated concurrently (overrides config)")
	migrateCmd.Flags().IntVar(&maxBatchFailures, "max-batch-failures", 0, "Consecutive batch failures before a collection is abandoned")

	viper.BindPFlag("settings.batch_size", migrateCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("settings.sample_size", migrateCmd.Flags().Lookup("sample-size"))
	viper.BindPFlag("settings.max_depth", migrateCmd.Flags().Lookup("max-depth"))
	viper.BindPFlag("settings.parallel", migrateCmd.Flags().Lookup("parallel"))
	viper.BindPFlag("settings.max_batch_failures", migrateCmd.Flags().Lookup("max-batch-failures"))

	viper.SetDefault("settings.batch_size", 1000)
	viper.SetDefault("settings.sample_size", 100)
	viper.SetDefault("settings.max_depth", 2)
	viper.SetDefault("settings.parallel", 1)
	viper.SetDefault("settings.max_batch_failures", 3)
}
