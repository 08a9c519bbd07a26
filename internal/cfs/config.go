// Simulator configuration: a YAML document with a single top-level
// "cfs_config" section, following the same load pattern as the framework
// this repository was grown from (a yaml.Node walk so unrelated sections in
// the same file are ignored rather than rejected).

package cfs

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SimConfigSectionName = "cfs_config"

	SimConfigTimeQuantumDefault    = 100 * time.Millisecond
	SimConfigMinGranularityDefault = 4 * time.Millisecond
)

// SimConfig holds the scheduler parameters and ambient settings that are
// not carried by the workload file itself.
type SimConfig struct {
	LoggerConfig *LoggerConfig `yaml:"log_config"`

	// Defaults for time_quantum/min_granularity, overridden by the
	// workload file's own (mandatory) header lines, and in turn overridden
	// by --time-quantum/--min-granularity command line flags.
	TimeQuantum    time.Duration `yaml:"time_quantum"`
	MinGranularity time.Duration `yaml:"min_granularity"`

	// Whether to emit a Debug-level trace event for every dispatch burst.
	Trace bool `yaml:"trace"`
}

func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		LoggerConfig:   DefaultLoggerConfig(),
		TimeQuantum:    SimConfigTimeQuantumDefault,
		MinGranularity: SimConfigMinGranularityDefault,
		Trace:          false,
	}
}

// LoadConfig loads cfs_config from the given YAML file (or, for tests, from
// buf directly). A missing file is not an error if buf is supplied; a
// missing section in a well-formed document just leaves the defaults.
func LoadConfig(cfgFile string, buf []byte) (*SimConfig, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	cfg := DefaultSimConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		found := false
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				found = n.Value == SimConfigSectionName
				continue
			}
			if found && n.Kind == yaml.MappingNode {
				if err := n.Decode(cfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			found = false
		}
	}

	return cfg, nil
}
