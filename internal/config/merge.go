package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging   = "logging"
	keySearch    = "search"
	keySimulator = "simulator"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyLogging:   true,
	keySearch:    true,
	keySimulator: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Each section present in the overlay is decoded over the
// target's current section, so fields the overlay leaves out keep their
// values. Sections absent from the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// decodeSection decodes one overlay node onto the matching Config field.
// Decoding into a copy keeps target untouched when the section is malformed.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	case keySearch:
		v := target.Search
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Search = v
		return nil
	case keySimulator:
		v := target.Simulator
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Simulator = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
