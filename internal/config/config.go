// Package config provides configuration management for the RDF pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingCleanInput    = errors.New("clean_data.input is required")
	ErrMissingCleanOutput   = errors.New("clean_data.output is required")
	ErrMissingDatasetPath   = errors.New("split_dataset.dataset_path is required")
	ErrInvalidChunkCount    = errors.New("split_dataset.n_chunks must be at least 1")
	ErrMissingSplitOutput   = errors.New("split_dataset.output_dir is required")
	ErrMissingRulesPath     = errors.New("mapping.rml_path is required")
	ErrMissingMappingOutput = errors.New("mapping.output_path is required")
	ErrMissingMapperPath    = errors.New("mapping.mapper_path is required")
	ErrMissingGraphDBURL    = errors.New("upload_to_graphDB.graphDB_url is required")
	ErrMissingGraphDBRepo   = errors.New("upload_to_graphDB.graphDB_repo is required")
	ErrInvalidTimeout       = errors.New("upload_to_graphDB.timeout_sec must be non-negative")
)

// Config represents the complete pipeline configuration.
type Config struct {
	CleanData    CleanConfig   `json:"clean_data" yaml:"clean_data"`
	SplitDataset SplitConfig   `json:"split_dataset" yaml:"split_dataset"`
	Mapping      MappingConfig `json:"mapping" yaml:"mapping"`
	Upload       UploadConfig  `json:"upload_to_graphDB" yaml:"upload_to_graphDB"`
}

// CleanConfig contains the cleaning stage settings.
type CleanConfig struct {
	Input   string        `json:"input" yaml:"input"`
	Output  string        `json:"output" yaml:"output"`
	Columns ColumnsConfig `json:"columns" yaml:"columns"`
}

// ColumnsConfig overrides the column names the cleaner operates on. Empty
// fields fall back to the sensor export defaults.
type ColumnsConfig struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Unit      string `json:"unit" yaml:"unit"`
	Quality   string `json:"quality" yaml:"quality"`
	Register  string `json:"register" yaml:"register"`
	Property  string `json:"property" yaml:"property"`
}

// SplitConfig contains the splitting stage settings.
type SplitConfig struct {
	DatasetPath string  `json:"dataset_path" yaml:"dataset_path"`
	NChunks     FlexInt `json:"n_chunks" yaml:"n_chunks"`
	OutputDir   string  `json:"output_dir" yaml:"output_dir"`
}

// MappingConfig contains the RDF mapping stage settings. CSVPath overrides
// the default chunk source (the split stage output directory). The JVM
// fields are deployment parameters with built-in defaults.
type MappingConfig struct {
	RulesPath   string `json:"rml_path" yaml:"rml_path"`
	OutputPath  string `json:"output_path" yaml:"output_path"`
	MapperPath  string `json:"mapper_path" yaml:"mapper_path"`
	CSVPath     string `json:"csv_path" yaml:"csv_path"`
	JavaPath    string `json:"java_path" yaml:"java_path"`
	InitialHeap string `json:"initial_heap" yaml:"initial_heap"`
	MaxHeap     string `json:"max_heap" yaml:"max_heap"`
	GC          string `json:"gc" yaml:"gc"`
}

// UploadConfig contains the GraphDB upload stage settings.
type UploadConfig struct {
	GraphDBURL  string `json:"graphDB_url" yaml:"graphDB_url"`
	GraphDBRepo string `json:"graphDB_repo" yaml:"graphDB_repo"`
	TimeoutSec  int    `json:"timeout_sec" yaml:"timeout_sec"`
	VerifyRDF   *bool  `json:"verify_rdf" yaml:"verify_rdf"`
}

// FlexInt is an integer that also accepts quoted numbers, since reference
// settings files carry numeric parameters as strings.
type FlexInt int

// UnmarshalJSON decodes a JSON number or a quoted number string.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}

	*f = FlexInt(n)

	return nil
}

// UnmarshalYAML decodes a YAML scalar holding an integer.
func (f *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*f = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}

	*f = FlexInt(n)

	return nil
}

// LoadConfig loads configuration from a JSON file. Paths ending in .yaml or
// .yml are decoded as YAML instead. Only parse failures are reported here;
// per-stage keys are checked by the stage that needs them.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ValidateClean checks the keys the cleaning stage needs.
func (c *Config) ValidateClean() error {
	if c.CleanData.Input == "" {
		return ErrMissingCleanInput
	}

	if c.CleanData.Output == "" {
		return ErrMissingCleanOutput
	}

	return nil
}

// ValidateSplit checks the keys the splitting stage needs.
func (c *Config) ValidateSplit() error {
	if c.SplitDataset.DatasetPath == "" {
		return ErrMissingDatasetPath
	}

	if c.SplitDataset.NChunks < 1 {
		return ErrInvalidChunkCount
	}

	if c.SplitDataset.OutputDir == "" {
		return ErrMissingSplitOutput
	}

	return nil
}

// ValidateMapping checks the keys the mapping stage needs. The chunk source
// may come from either mapping.csv_path or split_dataset.output_dir.
func (c *Config) ValidateMapping() error {
	if c.Mapping.RulesPath == "" {
		return ErrMissingRulesPath
	}

	if c.Mapping.OutputPath == "" {
		return ErrMissingMappingOutput
	}

	if c.Mapping.MapperPath == "" {
		return ErrMissingMapperPath
	}

	return nil
}

// ValidateUpload checks the keys the upload stage needs.
func (c *Config) ValidateUpload() error {
	if c.Upload.GraphDBURL == "" {
		return ErrMissingGraphDBURL
	}

	if c.Upload.GraphDBRepo == "" {
		return ErrMissingGraphDBRepo
	}

	if c.Upload.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// CSVSource returns the chunk source for the mapping stage.
func (c *Config) CSVSource() string {
	if c.Mapping.CSVPath != "" {
		return c.Mapping.CSVPath
	}

	return c.SplitDataset.OutputDir
}

// GetTimeout returns the upload HTTP timeout.
func (u *UploadConfig) GetTimeout() time.Duration {
	if u.TimeoutSec <= 0 {
		return 30 * time.Second
	}

	return time.Duration(u.TimeoutSec) * time.Second
}

// ShouldVerify reports whether files are decoded for triple counts
// before upload.
func (u *UploadConfig) ShouldVerify() bool {
	if u.VerifyRDF == nil {
		return true
	}

	return *u.VerifyRDF
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Clean: %s -> %s, Chunks: %d, Rules: %s, GraphDB: %s/%s}",
		c.CleanData.Input,
		c.CleanData.Output,
		c.SplitDataset.NChunks,
		c.Mapping.RulesPath,
		c.Upload.GraphDBURL,
		c.Upload.GraphDBRepo,
	)
}
