// Package config loads flag defaults from YAML files.
//
// Top-level keys apply to every command; a section named after a command
// applies only to it and wins over the top level:
//
//	workers: 4
//	scramble:
//	  dest: out/scrambled
//	  force: true
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v2"
)

// YAML is a kong.ConfigurationLoader.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse configuration: %w", err)
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := kctx.Selected(); cmd != nil {
			if section, ok := values[cmd.Name].(map[any]any); ok {
				if v, ok := lookup(stringKeys(section), flag.Name); ok {
					return scalar(flag.Name, v)
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return scalar(flag.Name, v)
		}
		return nil, nil
	}
	return f, nil
}

func stringKeys(m map[any]any) map[string]any {
	res := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := k.(string); ok {
			res[s] = v
		}
	}
	return res
}

// lookup accepts both "log-format" and "log_format" spellings.
func lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	v, ok := m[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}

// scalar renders YAML scalars as strings so kong's mappers parse them the
// same way as command line values.
func scalar(name string, v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	default:
		return nil, fmt.Errorf("configuration key %q: unsupported value %v", name, v)
	}
}
