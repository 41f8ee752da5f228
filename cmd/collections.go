package cmd

import (
	"context"
	"fmt"
	"time"

	"mongolift/internal/source"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections in the source database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbName := viper.GetString("source.database")
		if dbName == "" {
			return fmt.Errorf("source.database is required (via --database flag or config)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		src, err := source.Connect(ctx, viper.GetString("source.uri"), dbName)
		if err != nil {
			return err
		}
		defer src.Close(context.Background())

		names, err := src.Collections(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("📊 %d collection(s) in %s:\n", len(names), dbName)
		for _, name := range names {
			count, err := src.Count(ctx, name)
			if err != nil {
				fmt.Printf("  %-30s (count unavailable: %v)\n", name, err)
				continue
			}
			fmt.Printf("  %-30s %d documents\n", name, count)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(collectionsCmd)
}
