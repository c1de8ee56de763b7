package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoConfig(t *testing.T) {
	tests := map[string]struct {
		file        string
		args        []string
		wantReverse bool
		wantSize    float64
		wantErr     string
	}{
		"flag defaults": {
			wantReverse: true,
			wantSize:    2,
		},
		"file wins over default flags": {
			file:        "reverse: false\nestimateSize: 3\n",
			wantReverse: false,
			wantSize:    3,
		},
		"explicit flags win over file": {
			file:        "reverse: false\nestimateSize: 3\n",
			args:        []string{"--reverse", "--estimate", "1"},
			wantReverse: true,
			wantSize:    1,
		},
		"invalid file": {
			file:    "overscanBefore: -1\n",
			wantErr: "invalid config",
		},
		"invalid estimate": {
			args:    []string{"--estimate", "0"},
			wantErr: "invalid config",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			opts := &DemoOptions{}
			cmd := newDemoCommand(opts)
			args := tc.args
			if tc.file != "" {
				args = append(args, "--config", writeFile(t, "vlist.yaml", tc.file))
			}
			require.NoError(t, cmd.ParseFlags(args))

			config, err := demoConfig(opts, cmd)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantReverse, config.Reverse)
			assert.Equal(t, tc.wantSize, config.EstimateSize)
		})
	}
}

func TestDemoFlagErrors(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"unknown border": {
			args:    []string{"--border", "wavy"},
			wantErr: `unknown border style "wavy"`,
		},
		"negative rows": {
			args:    []string{"--rows", "-5"},
			wantErr: "invalid --rows -5",
		},
		"bad wheel step": {
			args:    []string{"--wheel-step", "0"},
			wantErr: "invalid --wheel-step 0",
		},
		"negative stream interval": {
			args:    []string{"--stream", "-1s"},
			wantErr: "invalid --stream -1s",
		},
		"missing config": {
			args:    []string{"--config", "/does/not/exist.yaml"},
			wantErr: "failed to open config",
		},
		"positional args": {
			args:    []string{"extra"},
			wantErr: "unknown command",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := NewDemoCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
