package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultReportsDir, cfg.Server.ReportsDir)
	assert.Equal(t, DefaultDashboardDir, cfg.Server.DashboardDir)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, license.DefaultPolicy(), cfg.License)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".depdash.yaml", `
server:
  port: 9090
  reportsDir: /srv/reports
license:
  restricted: ["AGPL", "SSPL"]
output:
  format: json
ignorePackages:
  - "types-*"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/reports", cfg.Server.ReportsDir)
	assert.Equal(t, DefaultDashboardDir, cfg.Server.DashboardDir)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []string{"AGPL", "SSPL"}, cfg.License.Restricted)
	assert.Equal(t, license.DefaultPolicy().Allowed, cfg.License.Allowed)
	assert.Equal(t, license.DefaultPolicy().ReviewRequired, cfg.License.ReviewRequired)
	assert.Equal(t, []string{"types-*"}, cfg.IgnorePackages)
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".depdash.toml", `
ignorePackages = ["internal-*"]

[server]
port = 7000
dataURL = "https://reports.example.com"

[license]
allowed = ["MIT"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "https://reports.example.com", cfg.Server.DataURL)
	assert.Equal(t, []string{"MIT"}, cfg.License.Allowed)
	assert.Equal(t, license.DefaultPolicy().Restricted, cfg.License.Restricted)
	assert.Equal(t, []string{"internal-*"}, cfg.IgnorePackages)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")

	bad := writeConfig(t, dir, "bad.yaml", "server: [")
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "error parsing config file")

	badFormat := writeConfig(t, dir, "format.yaml", "output:\n  format: html\n")
	_, err = LoadConfig(badFormat)
	assert.ErrorContains(t, err, "invalid output format")

	badPort := writeConfig(t, dir, "port.yaml", "server:\n  port: 70000\n")
	_, err = LoadConfig(badPort)
	assert.ErrorContains(t, err, "invalid server port")

	badGlob := writeConfig(t, dir, "glob.yaml", "ignorePackages: [\"a[\"]\n")
	_, err = LoadConfig(badGlob)
	assert.ErrorContains(t, err, "invalid ignorePackages pattern")
}

func TestFindAndLoadConfig_WalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeConfig(t, root, ".depdash.yml", "server:\n  port: 8181\n")

	cfg, err := FindAndLoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DEPDASH_PORT", "9999")
	t.Setenv("DEPDASH_REPORTS_DIR", "/tmp/r")
	t.Setenv("DEPDASH_DATA_URL", "http://localhost:1/reports")
	t.Setenv("DEPDASH_IGNORE_PACKAGES", "a-*, b ,")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/r", cfg.Server.ReportsDir)
	assert.Equal(t, DefaultDashboardDir, cfg.Server.DashboardDir)
	assert.Equal(t, "http://localhost:1/reports", cfg.Server.DataURL)
	assert.Equal(t, []string{"a-*", "b"}, cfg.IgnorePackages)
}

func TestApplyEnv_NonNumericPort(t *testing.T) {
	t.Setenv("DEPDASH_PORT", "abc")

	cfg := DefaultConfig()
	assert.ErrorContains(t, ApplyEnv(cfg), `invalid DEPDASH_PORT "abc"`)
	assert.Equal(t, DefaultPort, cfg.Server.Port)

	t.Chdir(t.TempDir())
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "invalid DEPDASH_PORT")

	_, err = FindAndLoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid DEPDASH_PORT")

	dir := t.TempDir()
	path := writeConfig(t, dir, ".depdash.yaml", "server:\n  port: 8181\n")
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "invalid DEPDASH_PORT")
}

func TestLoadConfig_ValidatesEnvOverrides(t *testing.T) {
	t.Setenv("DEPDASH_PORT", "70000")
	_, err := FindAndLoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid server port 70000")

	t.Setenv("DEPDASH_PORT", "9090")
	t.Setenv("DEPDASH_IGNORE_PACKAGES", "ok-*,bad[")
	path := writeConfig(t, t.TempDir(), ".depdash.yaml", "server:\n  port: 8181\n")
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "invalid ignorePackages pattern")
}

func TestIsPackageIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnorePackages = []string{"types-*", "left-pad", "@internal/*"}

	assert.True(t, cfg.IsPackageIgnored("types-requests"))
	assert.True(t, cfg.IsPackageIgnored("left-pad"))
	assert.True(t, cfg.IsPackageIgnored("@internal/ui"))
	assert.False(t, cfg.IsPackageIgnored("requests"))
	assert.False(t, cfg.IsPackageIgnored("@internal/ui/deep"))
}

func TestDropIgnored(t *testing.T) {
	cfg := DefaultConfig()
	records := model.SampleRecords()
	assert.Equal(t, records, cfg.DropIgnored(records))

	cfg.IgnorePackages = []string{"re*"}
	kept := cfg.DropIgnored(records)
	assert.Len(t, kept, 4)
	assert.Len(t, records, 6)
	for _, r := range kept {
		assert.NotContains(t, []string{"react", "redux"}, r.PackageName)
	}
}
