package table

import "github.com/named-data/ndnc/std/log"

// Config represents the configuration of an InterestTable.
type Config struct {
	// Maximum number of distinct names, zero for no bound
	HighWater int `json:"high_water" toml:"high_water"`
}

// Configure applies a configuration to the table.
func (t *InterestTable[V]) Configure(config Config) {
	if config.HighWater < 0 {
		log.Warn(t, "Negative high water ignored", "high_water", config.HighWater)
	}
	t.SetHighWater(config.HighWater)
}
