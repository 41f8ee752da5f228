package cmd

import (
	"fmt"

	"mongolift/internal/schema"

	"github.com/spf13/viper"
)

// IndexConfig is one explicitly configured secondary index. Indexes are
// never inferred from the data; this is the only way to get one.
type IndexConfig struct {
	Table   string   `mapstructure:"table"`
	Name    string   `mapstructure:"name"`
	Columns []string `mapstructure:"columns"`
	Unique  bool     `mapstructure:"unique"`
}

// LoadIndexConfigs reads settings.indexes and groups them per table.
func LoadIndexConfigs() (map[string][]schema.Index, error) {
	var configs []IndexConfig
	if err := viper.UnmarshalKey("settings.indexes", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse settings.indexes: %w", err)
	}

	indexes := make(map[string][]schema.Index)
	for _, c := range configs {
		if c.Table == "" || c.Name == "" || len(c.Columns) == 0 {
			return nil, fmt.Errorf("index config requires table, name and columns (got %+v)", c)
		}
		indexes[c.Table] = append(indexes[c.Table], schema.Index{
			Name:    c.Name,
			Columns: c.Columns,
			Unique:  c.Unique,
		})
	}
	return indexes, nil
}
