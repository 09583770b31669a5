package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// RecordsConfig holds configuration for the records command.
type RecordsConfig struct {
	Config
	In    string
	Out   string
	PGDSN string
	Mine  bool
}

// LoadRecords merges config file, environment variables, and flags into RecordsConfig.
func LoadRecords(cfgFile string, flags *pflag.FlagSet) (RecordsConfig, error) {
	v, err := newViper(cfgFile, flags, nil)
	if err != nil {
		return RecordsConfig{}, err
	}
	return RecordsConfig{
		Config: base(v),
		In:     v.GetString("in"),
		Out:    v.GetString("out"),
		PGDSN:  v.GetString("pg-dsn"),
		Mine:   v.GetBool("mine"),
	}, nil
}

// SearchConfig holds configuration for the search command.
type SearchConfig struct {
	Config
	In           string
	PGDSN        string
	Advanced     bool
	Field        string
	Value        string
	Location     string
	Area         string
	SurveyNumber string
	PriceMin     string
	PriceMax     string
	Documents    string
}

// LoadSearch merges config file, environment variables, and flags into SearchConfig.
func LoadSearch(cfgFile string, flags *pflag.FlagSet) (SearchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"field":     "location",
		"documents": "any",
	})
	if err != nil {
		return SearchConfig{}, err
	}
	return SearchConfig{
		Config:       base(v),
		In:           v.GetString("in"),
		PGDSN:        v.GetString("pg-dsn"),
		Advanced:     v.GetBool("advanced"),
		Field:        v.GetString("field"),
		Value:        v.GetString("value"),
		Location:     v.GetString("location"),
		Area:         v.GetString("area"),
		SurveyNumber: v.GetString("survey-number"),
		PriceMin:     v.GetString("price-min"),
		PriceMax:     v.GetString("price-max"),
		Documents:    v.GetString("documents"),
	}, nil
}

// WatchConfig holds configuration for the history and watch commands.
type WatchConfig struct {
	Config
	Interval time.Duration
	Snapshot string
	Out      string
	PGDSN    string
}

// LoadWatch merges config file, environment variables, and flags into WatchConfig.
// Polling retries on the next tick, so per-call retries default to zero.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"interval":    5 * time.Second,
		"max-retries": 0,
	})
	if err != nil {
		return WatchConfig{}, err
	}
	return WatchConfig{
		Config:   base(v),
		Interval: v.GetDuration("interval"),
		Snapshot: v.GetString("snapshot"),
		Out:      v.GetString("out"),
		PGDSN:    v.GetString("pg-dsn"),
	}, nil
}

// TxConfig holds configuration for the register and transfer commands.
type TxConfig struct {
	Config
	PrivateKey   string
	Timeout      time.Duration
	Location     string
	Area         uint64
	SurveyNumber string
	Price        string
	DocumentHash string
	ImageHash    string
	LandID       uint64
	NewOwner     string
}

// LoadTx merges config file, environment variables, and flags into TxConfig.
func LoadTx(cfgFile string, flags *pflag.FlagSet) (TxConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"timeout": 2 * time.Minute,
	})
	if err != nil {
		return TxConfig{}, err
	}
	return TxConfig{
		Config:       base(v),
		PrivateKey:   strings.TrimSpace(v.GetString("private-key")),
		Timeout:      v.GetDuration("timeout"),
		Location:     v.GetString("location"),
		Area:         v.GetUint64("area"),
		SurveyNumber: v.GetString("survey-number"),
		Price:        strings.TrimSpace(v.GetString("price")),
		DocumentHash: v.GetString("document-hash"),
		ImageHash:    v.GetString("image-hash"),
		LandID:       v.GetUint64("id"),
		NewOwner:     strings.TrimSpace(v.GetString("new-owner")),
	}, nil
}

// BlocksConfig holds configuration for the blocks command.
type BlocksConfig struct {
	Config
	Count int
}

// LoadBlocks merges config file, environment variables, and flags into BlocksConfig.
func LoadBlocks(cfgFile string, flags *pflag.FlagSet) (BlocksConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"count": 10,
	})
	if err != nil {
		return BlocksConfig{}, err
	}
	return BlocksConfig{
		Config: base(v),
		Count:  v.GetInt("count"),
	}, nil
}
