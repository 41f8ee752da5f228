package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	sourceURI  string
	sourceDB   string
	destDSN    string
	destDriver string
)

var RootCmd = &cobra.Command{
	Use:   "mongolift",
	Short: "MongoDB to SQL migration tool",
	Long: `
                                  _ _  __ _
  _ __ ___   ___  _ __   __ _  __| (_)/ _| |_
 | '_ ' _ \ / _ \| '_ \ / _' |/ _' | | |_| __|
 | | | | | | (_) | | | | (_| | (_| | |  _| |_
 |_| |_| |_|\___/|_| |_|\__, |\__,_|_|_|  \__|
                        |___/

mongolift - migrate MongoDB collections to a relational
destination (SQLite, PostgreSQL, MySQL, SQL Server, Oracle)
with automatic schema inference.
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mongolift.yaml)")
	RootCmd.PersistentFlags().StringVar(&sourceURI, "uri", "", "MongoDB connection URI")
	RootCmd.PersistentFlags().StringVarP(&sourceDB, "database", "d", "", "MongoDB database name to migrate")
	RootCmd.PersistentFlags().StringVar(&destDSN, "dest-dsn", "", "destination DSN (file path for sqlite)")
	RootCmd.PersistentFlags().StringVar(&destDriver, "dest-driver", "", "destination driver (sqlite, postgres, mysql, sqlserver, oracle)")

	viper.BindPFlag("source.uri", RootCmd.PersistentFlags().Lookup("uri"))
	viper.BindPFlag("source.database", RootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("destination.dsn", RootCmd.PersistentFlags().Lookup("dest-dsn"))
	viper.BindPFlag("destination.driver", RootCmd.PersistentFlags().Lookup("dest-driver"))

	// Fallbacks if no config/flag
	viper.SetDefault("source.uri", "mongodb://localhost:27017")
	viper.SetDefault("destination.driver", "sqlite")
	viper.SetDefault("destination.dsn", "output.db")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("mongolift")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.BindEnv("source.uri", "MONGODB_URI")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
