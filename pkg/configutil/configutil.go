// Package configutil reads json5 config files with optional local overrides.
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

// LocalPath returns the path of the override file for `name`, "config.json5" becomes
// "config.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readFile[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads `name` and merges `<name>.local.<ext>` over it, fields set in the
// local file win. os.ErrNotExist is returned if neither file exists.
func ReadConfig[T any](name string) (T, error) {
	out, foundDefault, err := readFile[T](name)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	override, foundLocal, err := readFile[T](localPath)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Debug("merged config with local overrides", "local", localPath)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadOptional is ReadConfig where missing files just yield the zero value.
func ReadOptional[T any](name string) (T, error) {
	out, err := ReadConfig[T](name)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	return out, err
}
