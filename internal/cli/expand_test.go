package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPrintsFragmentTable(t *testing.T) {
	file := writeExprFile(t, "(x+y)*(x+y)", "(x+y)*z")

	out := &bytes.Buffer{}
	cmd := NewExpandCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	require.NoError(t, run(cmd, file))

	assert.Equal(t, "frag0 = x+y\nres0 = frag0*frag0\nres1 = frag0*z\n", out.String(),
		"identical groups across expressions should share one fragment")
}

func TestExpandJSON(t *testing.T) {
	file := writeExprFile(t, "f(x+y)*2")

	out := &bytes.Buffer{}
	cmd := NewExpandCommand(&RootOptions{Format: "json"})
	cmd.SetOut(out)
	require.NoError(t, run(cmd, "--function", "f", file))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "fragments")
	assert.Contains(t, data, "results")
}

func TestExpandRejectsMalformedInput(t *testing.T) {
	file := writeExprFile(t, "(x+y")

	out := &bytes.Buffer{}
	cmd := NewExpandCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	err := run(cmd, file)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "MALFORMED")
}
