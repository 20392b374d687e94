package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const auditPath = "../../src/parsers/evadts/testdata/audit.eva"

// run executes the root command and returns stdout and stderr separately.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDecode_JSON(t *testing.T) {
	out, status, err := run(t, "", "decode", auditPath)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	machine := report["machine_info"].(map[string]any)
	assert.Equal(t, "SN4711", machine["serial_number"])
	assert.Len(t, report["products"], 3)
	assert.Contains(t, status, "3 products, 3 events")
}

func TestDecode_YAMLSummaryFromStdin(t *testing.T) {
	raw, err := os.ReadFile(auditPath)
	require.NoError(t, err)

	out, status, err := run(t, string(raw), "decode", "-", "--format", "yaml", "--summary", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, status)

	var summary map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "ASSET-22", summary["machine_id"])
	assert.Equal(t, 3, summary["product_count"])
}

func TestDecode_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "evadts.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("format: yaml\nsummary: true\n"), 0o600))

	out, _, err := run(t, "", "--config", yamlPath, "decode", auditPath)
	require.NoError(t, err)
	assert.Contains(t, out, "machine_id: ASSET-22")

	// Flags override the file.
	out, _, err = run(t, "", "--config", yamlPath, "decode", auditPath, "--format", "json", "--summary=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, `"record_integrity": "1A2B"`)

	tomlPath := filepath.Join(dir, "evadts.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("format = \"yaml\"\nquiet = true\n"), 0o600))
	out, status, err := run(t, "", "--config", tomlPath, "decode", auditPath)
	require.NoError(t, err)
	assert.Contains(t, out, "serial_number: SN4711")
	assert.Empty(t, status)

	iniPath := filepath.Join(dir, "evadts.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte("format=json"), 0o600))
	_, _, err = run(t, "", "--config", iniPath, "decode", auditPath)
	assert.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	_, _, err := run(t, "", "decode", "does-not-exist.eva")
	assert.Error(t, err)

	_, _, err = run(t, "   \n", "decode", "-")
	assert.Error(t, err)

	_, _, err = run(t, "", "decode", auditPath, "--format", "xml")
	assert.Error(t, err)

	_, _, err = run(t, "", "decode")
	assert.Error(t, err)
}

func TestDecode_MissingIdentityWarns(t *testing.T) {
	_, status, err := run(t, "VA1*100*1\n", "decode", "-")
	require.NoError(t, err)
	assert.Contains(t, status, "no machine identity")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "evadts dev")
}
