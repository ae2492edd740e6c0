package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magv/rat2c/internal/testutil"
)

// writeExprFile writes one expression per line into a temp file.
func writeExprFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exprs.txt")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func compileCommand(eng *testutil.ScriptedEngine, format string) (*bytes.Buffer, *cobra.Command) {
	out := &bytes.Buffer{}
	cmd := newCompileCommand(&CompileOptions{
		RootOptions: &RootOptions{Format: format},
		Engine:      eng,
	})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	return out, cmd
}

func run(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCompileEmitsFunction(t *testing.T) {
	file := writeExprFile(t, "# squared sum", "", "(x+y)*(x+y)")
	eng := testutil.NewScriptedEngine()

	out, cmd := compileCommand(eng, "text")
	err := run(cmd, "--var", "x", "--var", "y", file)
	require.NoError(t, err)

	code := out.String()
	assert.Contains(t, code, "void rat2c_eval(double *out, double x, double y)")
	assert.Contains(t, code, "double tmp0 = x+y;", "shared subexpression should get one scratch slot")
	assert.Contains(t, code, "out[0] = tmp0*tmp0;")
	assert.Equal(t, 1, eng.Calls(), "one batch per run")
}

func TestCompileJSONEnvelope(t *testing.T) {
	file := writeExprFile(t, "(x+y)*(x+y)")
	eng := testutil.NewScriptedEngine()

	out, cmd := compileCommand(eng, "json")
	require.NoError(t, run(cmd, "--var", "x", "--var", "y", file))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rat2c_eval", data["function"])
	assert.EqualValues(t, 1, data["fragments"])
	assert.EqualValues(t, 1, data["slots"])
	assert.Contains(t, data["code"], "out[0]")
}

func TestCompileOutputToFile(t *testing.T) {
	file := writeExprFile(t, "(x+y)*(x+y)")
	outFile := filepath.Join(t.TempDir(), "out.c")
	eng := testutil.NewScriptedEngine()

	out, cmd := compileCommand(eng, "text")
	require.NoError(t, run(cmd, "--var", "x", "--var", "y", "-o", outFile, file))

	assert.Contains(t, out.String(), "✓ Wrote")
	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(written), "void rat2c_eval")
}

func TestCompileReservedIdentRejectedBeforeEngine(t *testing.T) {
	file := writeExprFile(t, "(tmp1+x)*y")
	eng := testutil.NewScriptedEngine()

	out, cmd := compileCommand(eng, "text")
	err := run(cmd, file)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "RESERVED_IDENT")
	assert.Zero(t, eng.Calls(), "validation failures must never reach the engine")
}

func TestCompileUndeclaredVariableWithExplicitOrder(t *testing.T) {
	file := writeExprFile(t, "(x+y)*z")
	eng := testutil.NewScriptedEngine()

	out, cmd := compileCommand(eng, "text")
	err := run(cmd, "--var", "x", "--var", "y", file)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "UNDECLARED_VAR")
	assert.Zero(t, eng.Calls())
}

func TestCompileEngineFailureExitsOne(t *testing.T) {
	file := writeExprFile(t, "(x+y)*2")
	eng := testutil.NewScriptedEngine().Fail(assert.AnError)

	_, cmd := compileCommand(eng, "text")
	err := run(cmd, "--var", "x", "--var", "y", file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCompileNoInput(t *testing.T) {
	eng := testutil.NewScriptedEngine()
	_, cmd := compileCommand(eng, "text")
	err := run(cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileJobFile(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.yaml")
	job := `
expressions:
  - (x+y)*(x+y)
variables: [x, y]
fun_name: poly
`
	require.NoError(t, os.WriteFile(jobPath, []byte(job), 0o644))

	eng := testutil.NewScriptedEngine()
	out, cmd := compileCommand(eng, "text")
	require.NoError(t, run(cmd, "--job", jobPath))

	assert.Contains(t, out.String(), "void poly(double *out, double x, double y)")
}

func TestCompileJobFileRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobPath, []byte("expresions: [x]\n"), 0o644))

	eng := testutil.NewScriptedEngine()
	_, cmd := compileCommand(eng, "text")
	err := run(cmd, "--job", jobPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid job file")
}

func TestCompileWithCacheSkipsEngineOnSecondRun(t *testing.T) {
	file := writeExprFile(t, "(x+y)*(x+y)")
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	eng := testutil.NewScriptedEngine()

	out1, cmd1 := compileCommand(eng, "text")
	require.NoError(t, run(cmd1, "--var", "x", "--var", "y", "--cache", cachePath, file))
	assert.Equal(t, 1, eng.Calls())

	out2, cmd2 := compileCommand(eng, "text")
	require.NoError(t, run(cmd2, "--var", "x", "--var", "y", "--cache", cachePath, file))
	assert.Equal(t, 1, eng.Calls(), "second run should be served from cache")
	assert.Equal(t, out1.String(), out2.String(), "cache hits must not change the output")
}

func TestCompileStdin(t *testing.T) {
	eng := testutil.NewScriptedEngine()
	out := &bytes.Buffer{}
	cmd := newCompileCommand(&CompileOptions{
		RootOptions: &RootOptions{Format: "text"},
		Engine:      eng,
	})
	cmd.SetOut(out)
	cmd.SetIn(bytes.NewBufferString("(x+y)*2\n"))
	cmd.SetArgs([]string{"--var", "x", "--var", "y", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "void rat2c_eval")
}
