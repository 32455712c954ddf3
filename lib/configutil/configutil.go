// Package configutil reads staplecheck's json5 configuration files
// (config.json5, telemetry.json5). A sibling "<name>.local.<ext>" file,
// kept out of version control, overrides the checked-in one field by
// field.
package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ErrNoConfig reports that neither the config file nor its local
// override exists. Callers treat it as "run with defaults".
var ErrNoConfig = errors.New("no config file found")

// Read loads the json5 file at path, then merges the local override
// next to it when one exists. Returns ErrNoConfig when both files are
// absent.
func Read[T any](path string) (T, error) {
	var out T
	found := false

	contents, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return out, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(contents) > 0 {
		err = json5.Unmarshal(contents, &out)
		if err != nil {
			return out, fmt.Errorf("decode config %s: %w", path, err)
		}
		found = true
	}

	localPath := localOverridePath(path)
	contents, err = os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, fmt.Errorf("read config %s: %w", localPath, err)
	}
	if len(contents) > 0 {
		var override T
		err = json5.Unmarshal(contents, &override)
		if err != nil {
			return out, fmt.Errorf("decode config %s: %w", localPath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge config overrides: %w", err)
		}
		slog.Info("merged config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, ErrNoConfig
	}
	return out, nil
}

// localOverridePath turns "config.json5" into "config.local.json5".
func localOverridePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// ReadRecursively walks up from the working directory until a config
// file (or its local override) matching name is found, so the tool can
// run from anywhere inside the project tree.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := Read[T](filepath.Join(current, name))
		if !errors.Is(err, ErrNoConfig) {
			return config, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return zero, ErrNoConfig
		}
		current = parent
	}
}
