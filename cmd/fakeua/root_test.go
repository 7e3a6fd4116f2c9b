package main

import (
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/Danny-Dasilva/fake-useragent/internal/config"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

func runWithFlags(t *testing.T, args ...string) map[string]any {
	t.Helper()
	var got map[string]any
	cmd := &cli.Command{
		Name:  "test",
		Flags: filterFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			got = filterOverrides(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return got
}

func TestFilterOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "nothing set",
			want: map[string]any{},
		},
		{
			name: "repeated browsers",
			args: []string{"--browser", "chrome", "-b", "firefox"},
			want: map[string]any{"browsers": []string{"chrome", "firefox"}},
		},
		{
			name: "thresholds",
			args: []string{"--min-percentage", "1.5", "--min-version", "120"},
			want: map[string]any{"min_percentage": 1.5, "min_version": 120.0},
		},
		{
			name: "os and platform",
			args: []string{"--os", "windows", "--platform", "mobile"},
			want: map[string]any{"os": []string{"windows"}, "platforms": []string{"mobile"}},
		},
		{
			name: "custom fallback",
			args: []string{"--fallback", "custom/1.0"},
			want: map[string]any{"fallback": "custom/1.0"},
		},
		{
			name: "no fallback wins",
			args: []string{"--fallback", "custom/1.0", "--no-fallback"},
			want: map[string]any{"fallback": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runWithFlags(t, tt.args...))
		})
	}
}

func TestFilterOverridesBuildOptions(t *testing.T) {
	overrides := runWithFlags(t, "--browser", "safari", "--platform", "tablet", "--no-fallback")

	opts, err := config.Default().Options(overrides)
	require.NoError(t, err)
	assert.Equal(t, []string{"safari"}, opts.Browsers)
	assert.Equal(t, []string{"tablet"}, opts.Platforms)
	assert.True(t, opts.DisableFallback)

	ua, err := useragent.New(opts)
	require.NoError(t, err)
	assert.Contains(t, ua.Config().OS, "ios")
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, log.WarnLevel, newLogger("warn", false).GetLevel())
	assert.Equal(t, log.DebugLevel, newLogger("warn", true).GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger("bogus", false).GetLevel())
}

func TestBrowserArg(t *testing.T) {
	run := func(args ...string) string {
		var got string
		cmd := &cli.Command{
			Name: "test",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				got = browserArg(cmd)
				return nil
			},
		}
		require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
		return got
	}

	assert.Equal(t, useragent.RandomKey, run())
	assert.Equal(t, "firefox", run("firefox"))
}
