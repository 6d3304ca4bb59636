package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string `json:"name"`
	Retries int    `json:"retries"`
	Debug   bool   `json:"debug"`
}

func write(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "dir/app.local.json5", LocalPath("dir/app.json5"))
	require.Equal(t, "app.local", LocalPath("app"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.json5")
	write(t, name, `{
	// comments are allowed
	name: "default",
	retries: 2,
}`)
	write(t, filepath.Join(dir, "app.local.json5"), `{ retries: 5, debug: true }`)

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "default", Retries: 5, Debug: true}, config)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.json5")
	write(t, filepath.Join(dir, "app.local.json5"), `{ name: "local" }`)

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "local", config.Name)
}

func TestReadConfigMissing(t *testing.T) {
	name := filepath.Join(t.TempDir(), "app.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	config, err := ReadOptional[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{}, config)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.json5")
	write(t, name, `{ name: `)

	_, err := ReadOptional[testConfig](name)
	require.Error(t, err)
}
