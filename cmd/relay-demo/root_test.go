package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRunSync(t *testing.T) {
	out, _, err := executeCommand(t, "run")
	require.NoError(t, err)

	expected := strings.Join([]string{
		"printer is printing",
		"tracker is alive: 2314 66",
		"called when it prints: 2314",
		"printer is printing",
		"called when it prints: 2314",
		"subscribers=1 notifications=2 failures=0",
		"",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestRunAsyncBounded(t *testing.T) {
	out, _, err := executeCommand(t, "run", "--async", "--async-limit", "2", "--value", "7", "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "tracker is alive: 7 66")
	assert.Equal(t, 1, strings.Count(out, "tracker is alive"))
	assert.Equal(t, 2, strings.Count(out, "called when it prints: 7"))
	assert.Contains(t, out, "subscribers=1 notifications=2 failures=0")
	assert.Contains(t, out, "metric relay_dispatcher_notifications_total series=1")
	assert.Contains(t, out, "metric relay_dispatcher_subscribers series=1")
}

func TestRunEnvOverride(t *testing.T) {
	t.Setenv("RELAY_VALUE", "99")

	out, _, err := executeCommand(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "called when it prints: 99")
}

func TestRunFlagBeatsEnv(t *testing.T) {
	t.Setenv("RELAY_VALUE", "99")

	out, _, err := executeCommand(t, "run", "--value", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "called when it prints: 5")
}

func TestRunDebugLogging(t *testing.T) {
	_, errOut, err := executeCommand(t, "run", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, errOut, "subscriber added")
	assert.Contains(t, errOut, "subscriber removed")
	assert.NotContains(t, errOut, "time=")
}

func TestRunInvalidPolicy(t *testing.T) {
	_, _, err := executeCommand(t, "run", "--policy", "sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown policy "sometimes"`)
}

func TestRunRejectsArgs(t *testing.T) {
	_, _, err := executeCommand(t, "run", "extra")
	assert.Error(t, err)
}
