package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/export"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with a config file in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func importDigits(t *testing.T, dir string) string {
	t.Helper()
	doc := filepath.Join(dir, "digits.fontedit")
	out, err := execute(t, dir, "import", "builtin:gomono", "--runes", "0x30-0x39", "--size", "8", "-o", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "10 glyphs")
	require.FileExists(t, doc)
	return doc
}

func TestInitConfig_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	initConfig()

	require.FileExists(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate(), string(data))
	assert.Equal(t, "c", cfg.Export.Format)
	assert.True(t, cfg.Export.MSBFirst)
	assert.Equal(t, path, configFileUsed())
}

func TestInitConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  format: python\n  invert_bits: true\n"), 0o600))
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	initConfig()

	assert.Equal(t, "python", cfg.Export.Format)
	assert.True(t, cfg.Export.InvertBits)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Export.MSBFirst)
	assert.Equal(t, config.Defaults().Import.Runes, cfg.Import.Runes)
}

func TestImport_DefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = execute(t, dir, "import", "builtin:gomono", "--runes", "0x41")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "gomono.fontedit"))
}

func TestImport_RejectsBadRunes(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "import", "builtin:gomono", "--runes", "z-a", "-o", filepath.Join(dir, "x.fontedit"))

	require.Error(t, err)
}

func TestExport_Stdout(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	out, err := execute(t, dir, "export", doc, "--format", "python")

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestExport_FileAndDiff(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)
	target := filepath.Join(dir, "digits.h")

	out, err := execute(t, dir, "export", doc, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+target)
	first, err := os.ReadFile(target)
	require.NoError(t, err)

	out, err = execute(t, dir, "export", doc, "-o", target, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	out, err = execute(t, dir, "export", doc, "-o", target, "--diff", "--invert")
	require.NoError(t, err)
	assert.Contains(t, out, "lines added")
	second, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))
}

func TestExport_DiffNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	_, err := execute(t, dir, "export", doc, "--diff")

	require.Error(t, err)
}

func TestExport_BadFormat(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	_, err := execute(t, dir, "export", doc, "--format", "cobol")

	require.Error(t, err)
}

func TestExportOptions_FlagsOverrideConfig(t *testing.T) {
	cfg = config.Defaults()
	resetFlags(exportCmd)
	require.NoError(t, exportCmd.Flags().Set("format", "arduino"))
	require.NoError(t, exportCmd.Flags().Set("msb", "false"))
	t.Cleanup(func() { resetFlags(exportCmd) })

	opts, err := exportOptions(exportCmd)

	require.NoError(t, err)
	assert.Equal(t, export.FormatArduino, opts.Format)
	assert.False(t, opts.MSBFirst)
	assert.False(t, opts.InvertBits)
}

func TestInfo_Raw(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	out, err := execute(t, dir, "info", doc, "--raw")

	require.NoError(t, err)
	assert.Contains(t, out, "## Go Mono")
	assert.Contains(t, out, "| Glyphs | 10 |")
	assert.Contains(t, out, "No modified glyphs.")
}

func TestInfo_MissingDocument(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "info", filepath.Join(dir, "nope.fontedit"))

	require.Error(t, err)
}

func TestInfo_Rendered(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	out, err := execute(t, dir, "info", doc, "--width", "60")

	require.NoError(t, err)
	assert.Contains(t, out, "Go Mono")
	assert.Contains(t, out, "10")
}

func TestExport_FlagsChangeOutput(t *testing.T) {
	dir := t.TempDir()
	doc := importDigits(t, dir)

	msb, err := execute(t, dir, "export", doc)
	require.NoError(t, err)
	lsb, err := execute(t, dir, "export", doc, "--msb=false")
	require.NoError(t, err)
	spaced, err := execute(t, dir, "export", doc, "--line-spacing")
	require.NoError(t, err)

	assert.Contains(t, msb, "MSB first: true")
	assert.Contains(t, lsb, "MSB first: false")
	assert.NotEqual(t, msb, lsb)
	assert.Contains(t, spaced, "line spacing: true")
}
