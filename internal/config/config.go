// Package config defines the data structures for an allocation request and
// includes functions for loading and normalizing request files.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/adspend-optimizer/pkg/constants"
	"github.com/spf13/viper"
)

// Inventory status values accepted on a BudgetItem.
const (
	InventoryInStock    = "in_stock"
	InventoryLowStock   = "low_stock"
	InventoryOutOfStock = "out_of_stock"
)

// Configuration holds everything a request file may declare: the allocation
// request itself plus runtime settings for logging, output, and the server.
type Configuration struct {
	Request OptimizerRequest `yaml:"request" mapstructure:"request"`
	Solver  string           `yaml:"solver,omitempty" mapstructure:"solver"`
	Logging LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
	Server  ServerConfig     `yaml:"server,omitempty" mapstructure:"server"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// ServerConfig holds settings for the optimize API server.
type ServerConfig struct {
	Address         string `yaml:"address,omitempty" mapstructure:"address"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds,omitempty" mapstructure:"cacheTTLSeconds"`
}

// CurvePoint is one raw ROI observation. Revenue takes precedence over ROAS
// when both are present.
type CurvePoint struct {
	Spend   float64  `yaml:"spend" mapstructure:"spend" json:"spend"`
	Revenue *float64 `yaml:"revenue,omitempty" mapstructure:"revenue" json:"revenue,omitempty"`
	ROAS    *float64 `yaml:"roas,omitempty" mapstructure:"roas" json:"roas,omitempty"`
}

// BudgetItem is one allocatable spend target (an ad channel, campaign, or SKU).
// A nil MaxSpend means the item is unbounded above; a nil InventoryMultiplier
// defaults to 1.
type BudgetItem struct {
	ID                  string       `yaml:"id" mapstructure:"id" json:"id" validate:"required"`
	Name                string       `yaml:"name,omitempty" mapstructure:"name" json:"name,omitempty"`
	MinSpend            float64      `yaml:"minSpend,omitempty" mapstructure:"minSpend" json:"minSpend,omitempty" validate:"gte=0"`
	MaxSpend            *float64     `yaml:"maxSpend,omitempty" mapstructure:"maxSpend" json:"maxSpend,omitempty" validate:"omitempty,gte=0"`
	CurrentSpend        float64      `yaml:"currentSpend,omitempty" mapstructure:"currentSpend" json:"currentSpend,omitempty"`
	ExpectedROAS        float64      `yaml:"expectedRoas,omitempty" mapstructure:"expectedRoas" json:"expectedRoas,omitempty"`
	ROICurve            []CurvePoint `yaml:"roiCurve,omitempty" mapstructure:"roiCurve" json:"roiCurve,omitempty"`
	InventoryStatus     string       `yaml:"inventoryStatus,omitempty" mapstructure:"inventoryStatus" json:"inventoryStatus,omitempty" validate:"omitempty,oneof=in_stock low_stock out_of_stock"`
	InventoryMultiplier *float64     `yaml:"inventoryMultiplier,omitempty" mapstructure:"inventoryMultiplier" json:"inventoryMultiplier,omitempty" validate:"omitempty,gte=0,lte=1"`
	PlatformMinimum     float64      `yaml:"platformMinimum,omitempty" mapstructure:"platformMinimum" json:"platformMinimum,omitempty" validate:"gte=0"`
}

// HierarchyConstraint bounds the aggregate spend of a named subset of items.
type HierarchyConstraint struct {
	ID       string   `yaml:"id" mapstructure:"id" json:"id" validate:"required"`
	Members  []string `yaml:"members" mapstructure:"members" json:"members"`
	MinSpend *float64 `yaml:"minSpend,omitempty" mapstructure:"minSpend" json:"minSpend,omitempty" validate:"omitempty,gte=0"`
	MaxSpend *float64 `yaml:"maxSpend,omitempty" mapstructure:"maxSpend" json:"maxSpend,omitempty" validate:"omitempty,gte=0"`
}

// OptimizerRequest is one complete allocation problem.
type OptimizerRequest struct {
	Name                 string                `yaml:"name,omitempty" mapstructure:"name" json:"name,omitempty"`
	TotalBudget          float64               `yaml:"totalBudget" mapstructure:"totalBudget" json:"totalBudget" validate:"gt=0"`
	Items                []BudgetItem          `yaml:"items" mapstructure:"items" json:"items" validate:"min=1,dive"`
	HierarchyConstraints []HierarchyConstraint `yaml:"hierarchyConstraints,omitempty" mapstructure:"hierarchyConstraints" json:"hierarchyConstraints,omitempty" validate:"dive"`
	LearningCap          *float64              `yaml:"learningCap,omitempty" mapstructure:"learningCap" json:"learningCap,omitempty" validate:"omitempty,gt=0"`
	ROASFloor            float64               `yaml:"roasFloor,omitempty" mapstructure:"roasFloor" json:"roasFloor,omitempty" validate:"gte=0"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.Normalize()
	return &configuration, nil
}

// Normalize applies defaults across the configuration.
func (c *Configuration) Normalize() {
	if c == nil {
		return
	}
	c.Request.Normalize()
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = constants.DefaultCacheTTLSeconds
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// Normalize ensures defaults and canonical values are applied before
// validation.
func (r *OptimizerRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Items {
		r.Items[i].Normalize()
	}
}

// Normalize applies per-item defaults.
func (b *BudgetItem) Normalize() {
	if b == nil {
		return
	}
	b.ID = strings.TrimSpace(b.ID)
	if b.Name == "" {
		b.Name = b.ID
	}
	b.InventoryStatus = strings.ToLower(strings.TrimSpace(b.InventoryStatus))
	if b.InventoryStatus == "" {
		b.InventoryStatus = InventoryInStock
	}
	if b.ExpectedROAS == 0 {
		b.ExpectedROAS = constants.DefaultExpectedROAS
	}
}

// Multiplier returns the effective inventory multiplier, defaulting to 1 when
// the item omits one.
func (b *BudgetItem) Multiplier() float64 {
	if b.InventoryMultiplier == nil {
		return constants.DefaultInventoryMultiplier
	}
	return *b.InventoryMultiplier
}
