package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/doraemoncito/tap2bin/report"
	"github.com/doraemoncito/tap2bin/store"
	"github.com/doraemoncito/tap2bin/tap/taptest"
	"github.com/doraemoncito/tap2bin/types"
)

// newTestApp creates a cli.App with all commands wired up and ExitErrHandler
// suppressed so errors are returned instead of calling os.Exit.
func newTestApp(out, errOut *bytes.Buffer) *cli.App {
	app := cli.NewApp()
	app.Name = "tap2bin"
	app.Writer = out
	app.ErrWriter = errOut
	app.Commands = []*cli.Command{
		DecodeCommand(),
		BatchCommand(),
		InspectCommand(),
		CatalogCommand(),
		VersionCommand("abc123"),
	}
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newTestApp(&out, &errOut).Run(append([]string{"tap2bin"}, args...))
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var exitCoder cli.ExitCoder
	require.True(t, errors.As(err, &exitCoder), "error should be cli.ExitCoder: %v", err)
	assert.Equal(t, code, exitCoder.ExitCode())
}

var mainPayload = taptest.Payload(300, 7)

func gameTape() *taptest.Builder {
	return taptest.New().
		BASIC("loader", 10, 4).Data([]byte{0, 10, 0, 0}).
		Pair("main", 0x8000, mainPayload)
}

func TestDecode_WritesNextToInput(t *testing.T) {
	dir := t.TempDir()
	path := gameTape().WriteFile(t, dir, "game.tap")

	out, err := runApp(t, "decode", "--no-color", path)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "game.bin"))
	require.NoError(t, err)
	assert.Equal(t, mainPayload, data)

	assert.Contains(t, out, "Processing: "+path)
	assert.Contains(t, out, "Extraction successful!")
	assert.Contains(t, out, "./z80_benchmark "+filepath.Join(dir, "game.bin"))
}

func TestDecode_OutputDirArgument(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")
	outDir := filepath.Join(t.TempDir(), "bin")

	out, err := runApp(t, "decode", "--no-color", path, outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "game.bin"))
	assert.Contains(t, out, "./z80_benchmark "+filepath.Join(outDir, "game.bin"))
}

func TestDecode_MissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.tap")

	_, err := runApp(t, "decode", missing)
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "File not found: "+missing)
}

func TestDecode_NoArguments(t *testing.T) {
	_, err := runApp(t, "decode")
	requireExitCode(t, err, exitFailure)
}

func TestDecode_ZeroArtifactsSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := taptest.New().BASIC("loader", 10, 4).Data([]byte{0, 10, 0, 0}).WriteFile(t, dir, "basic.tap")

	out, err := runApp(t, "decode", "--no-color", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No machine code found in TAP file")
	assert.NoFileExists(t, filepath.Join(dir, "basic.bin"))
}

func TestDecode_QuietPrintsNothing(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	out, err := runApp(t, "decode", "-q", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecode_Report(t *testing.T) {
	dir := t.TempDir()
	path := gameTape().WriteFile(t, dir, "game.tap")
	reportPath := filepath.Join(dir, "report.json")

	_, err := runApp(t, "decode", "--quiet", "--report", reportPath, path)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.RunReport
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, report.OutcomeSuccess, rep.Outcome)
	assert.Equal(t, 0, rep.ExitCode)
	assert.Equal(t, 4, rep.TotalBlocks)
	require.Len(t, rep.Artifacts, 1)
	assert.Equal(t, "game.bin", rep.Artifacts[0].Name)
	assert.NotEmpty(t, rep.RunID)
}

func TestDecode_ReportOnFailure(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")

	_, err := runApp(t, "decode", "--report", reportPath, filepath.Join(dir, "missing.tap"))
	requireExitCode(t, err, exitFailure)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.RunReport
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, report.OutcomeFailed, rep.Outcome)
	assert.Equal(t, exitFailure, rep.ExitCode)
}

func TestDecode_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := gameTape().WriteFile(t, dir, "game.tap")
	outDir := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "tap2bin.yaml")
	cfg := "output_dir: " + outDir + "\nmanifest: true\nquiet: true\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := runApp(t, "decode", "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(outDir, "game.bin"))
	assert.FileExists(t, filepath.Join(outDir, "game.manifest.yaml"))
}

func TestDecode_MemoryStore(t *testing.T) {
	dir := t.TempDir()
	path := gameTape().WriteFile(t, dir, "game.tap")
	reportPath := filepath.Join(dir, "report.json")

	_, err := runApp(t, "decode", "--quiet", "--store", "memory", "--report", reportPath, path)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "game.bin"))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.RunReport
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Len(t, rep.Artifacts, 1)
	assert.Equal(t, "mem://game/game.bin", rep.Artifacts[0].Location)
}

func TestDecode_InvalidStore(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	_, err := runApp(t, "decode", "--store", "ftp", path)
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "unknown --store")
}

func TestDecode_CatalogThenList(t *testing.T) {
	dir := t.TempDir()
	path := gameTape().WriteFile(t, dir, "game.tap")
	catalogDir := filepath.Join(dir, "catalog")

	_, err := runApp(t, "decode", "--quiet", "--catalog", catalogDir, path)
	require.NoError(t, err)

	out, err := runApp(t, "catalog", "list", "--catalog", catalogDir, "--format", "json")
	require.NoError(t, err)

	var entries []store.CatalogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "game", entries[0].Source)
	assert.Equal(t, "game.bin", entries[0].Name)
	assert.Equal(t, 0x8000, entries[0].LoadAddress)
	assert.Equal(t, len(mainPayload), entries[0].Size)

	out, err = runApp(t, "catalog", "stats", "--catalog", catalogDir, "--format", "json")
	require.NoError(t, err)
	var stats []store.SourceStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Runs)
	assert.Equal(t, int64(len(mainPayload)), stats[0].Bytes)
}

func TestCatalog_RequiresLocation(t *testing.T) {
	_, err := runApp(t, "catalog", "list")
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "--catalog is required")
}

func TestCatalog_TUIUnsupported(t *testing.T) {
	_, err := runApp(t, "catalog", "list", "--tui", "--catalog", t.TempDir())
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "--tui is not supported")
}

func TestBatch_PrintsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.tap", "b.tap", "c.tap"} {
		paths = append(paths, gameTape().WriteFile(t, dir, name))
	}

	out, err := runApp(t, append([]string{"batch", "--no-color", "--jobs", "3"}, paths...)...)
	require.NoError(t, err)

	ia := strings.Index(out, "Processing: "+paths[0])
	ib := strings.Index(out, "Processing: "+paths[1])
	ic := strings.Index(out, "Processing: "+paths[2])
	require.True(t, ia >= 0 && ib >= 0 && ic >= 0, "missing progress output:\n%s", out)
	assert.True(t, ia < ib && ib < ic, "progress out of order:\n%s", out)
	assert.Contains(t, out, "Batch summary (3 files)")

	for _, name := range []string{"a.bin", "b.bin", "c.bin"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestBatch_OutputDir(t *testing.T) {
	src := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "bin")
	a := gameTape().WriteFile(t, src, "a.tap")
	b := gameTape().WriteFile(t, src, "b.tap")

	_, err := runApp(t, "batch", "--quiet", "-o", outDir, a, b)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "a.bin"))
	assert.FileExists(t, filepath.Join(outDir, "b.bin"))
}

func TestBatch_FailureExitCode(t *testing.T) {
	dir := t.TempDir()
	good := gameTape().WriteFile(t, dir, "good.tap")
	missing := filepath.Join(dir, "missing.tap")

	_, err := runApp(t, "batch", "--quiet", "--jobs", "1", missing, good)
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "File not found: "+missing)
}

func TestBatch_Report(t *testing.T) {
	dir := t.TempDir()
	a := gameTape().WriteFile(t, dir, "a.tap")
	b := taptest.New().BASIC("x", 0, 1).Data([]byte{0}).WriteFile(t, dir, "b.tap")
	reportPath := filepath.Join(dir, "batch.json")

	_, err := runApp(t, "batch", "--quiet", "--report", reportPath, a, b)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var reps []report.RunReport
	require.NoError(t, json.Unmarshal(data, &reps))
	require.Len(t, reps, 2)
	assert.Equal(t, report.OutcomeSuccess, reps[0].Outcome)
	assert.Equal(t, report.OutcomeNoArtifacts, reps[1].Outcome)
}

func TestInspect_JSON(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	out, err := runApp(t, "inspect", "--format", "json", path)
	require.NoError(t, err)

	var in types.Inspection
	require.NoError(t, json.Unmarshal([]byte(out), &in))
	require.Len(t, in.Blocks, 4)
	assert.Equal(t, "header", in.Blocks[2].Kind)
	assert.Equal(t, "main", in.Blocks[2].Name)
	assert.Equal(t, uint16(0x8000), in.Blocks[2].Param1)
	assert.Equal(t, "code payload", in.Blocks[3].Note)
	assert.Equal(t, types.EndOfStream, in.End)
}

func TestInspect_Table(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	out, err := runApp(t, "inspect", "--format", "table", "--no-color", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind")
	assert.Contains(t, out, "loader")
	assert.Contains(t, out, "end: end_of_stream")
}

func TestInspect_DefaultsToJSONWhenNotTTY(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	out, err := runApp(t, "inspect", path)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "expected JSON output, got:\n%s", out)
}

func TestInspect_InvalidFormat(t *testing.T) {
	path := gameTape().WriteFile(t, t.TempDir(), "game.tap")

	_, err := runApp(t, "inspect", "--format", "xml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInspect_MissingInput(t *testing.T) {
	_, err := runApp(t, "inspect", filepath.Join(t.TempDir(), "none.tap"))
	requireExitCode(t, err, exitFailure)
	assert.Contains(t, err.Error(), "File not found")
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "version", "--format", "json")
	require.NoError(t, err)

	var resp VersionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, types.Version, resp.Version)
	assert.Equal(t, "abc123", resp.Commit)
}

func TestVersion_TUIUnsupported(t *testing.T) {
	_, err := runApp(t, "version", "--tui")
	requireExitCode(t, err, exitFailure)
}
