package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortScenario = `gestures: 2
flushDebounceMs: 100
quietMs: 250
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeReplay(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReplayText(t *testing.T) {
	path := writeFile(t, "scenario.yaml", shortScenario)

	out, err := executeReplay(t, "--scenario", path, "--log-level", "disabled")
	require.NoError(t, err)
	assert.Contains(t, out, "GESTURE")
	assert.Contains(t, out, "clamped writes: 0")
	assert.Contains(t, out, "\nok\n")
}

func TestReplayJSON(t *testing.T) {
	path := writeFile(t, "scenario.yaml", shortScenario)

	out, err := executeReplay(t, "--scenario", path, "--gestures", "1", "--format", "json", "--log-level", "disabled")
	require.NoError(t, err)

	var report ReplayReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.OK)
	require.Len(t, report.Gestures, 1)
	assert.Equal(t, "settling", report.Gestures[0].Released)
	assert.Equal(t, "idle", report.Gestures[0].Settled)
	assert.Less(t, report.Gestures[0].Flushed, report.Start)
}

func TestReplayErrors(t *testing.T) {
	tests := map[string]struct {
		args    func(t *testing.T) []string
		wantErr string
	}{
		"bad format": {
			args:    func(*testing.T) []string { return []string{"--format", "xml"} },
			wantErr: "invalid format",
		},
		"bad log level": {
			args:    func(*testing.T) []string { return []string{"--log-level", "loud"} },
			wantErr: "invalid --log-level",
		},
		"missing scenario": {
			args:    func(*testing.T) []string { return []string{"--scenario", "/does/not/exist.yaml"} },
			wantErr: "failed to open scenario",
		},
		"unknown field": {
			args: func(t *testing.T) []string {
				return []string{"--scenario", writeFile(t, "bad.yaml", "gesturez: 2\n")}
			},
			wantErr: "invalid scenario",
		},
		"negative gestures": {
			args:    func(*testing.T) []string { return []string{"--gestures", "-1"} },
			wantErr: "invalid scenario",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := executeReplay(t, tc.args(t)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Equal(t, ExitCommandError, ExitCode(err))
		})
	}
}
