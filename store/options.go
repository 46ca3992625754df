package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptions reads store options from a YAML file, so test harnesses and
// container entrypoints can configure the engine without code:
//
//	path: /data/tabletown
//	inMemory: false
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options file: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options file %s: %w", path, err)
	}
	return opts, nil
}
