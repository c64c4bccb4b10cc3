package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpmw "talentpool/internal/http/middleware"
	"talentpool/internal/observability"
)

func useMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
}

func execute(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "talentpool", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(sub)
	t.Cleanup(func() { root.RemoveCommand(sub) })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateUserPrintsToken(t *testing.T) {
	useMemoryEnv(t)

	out, err := execute(t, CreateUserCmd, "recruiter", "correct-horse")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	assert.Len(t, token, 40)
}

func TestCreateUserValidatesPassword(t *testing.T) {
	useMemoryEnv(t)

	_, err := execute(t, CreateUserCmd, "recruiter", "short")
	require.Error(t, err)

	_, err = execute(t, CreateUserCmd, "recruiter")
	require.Error(t, err)
}

func TestSweepOnEmptyStore(t *testing.T) {
	useMemoryEnv(t)

	out, err := execute(t, SweepCmd)
	require.NoError(t, err)
	assert.Equal(t, "due=0 promoted=0 failed=0\n", out)
}

func TestMigrateRequiresDatabase(t *testing.T) {
	useMemoryEnv(t)

	_, err := execute(t, MigrateCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestInvalidConfigurationFails(t *testing.T) {
	useMemoryEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	_, err := execute(t, SweepCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestNewLimiter(t *testing.T) {
	ctx := context.Background()
	logger := observability.NewNop()

	limiter, closeFn, err := newLimiter(ctx, "", logger)
	require.NoError(t, err)
	assert.IsType(t, &httpmw.RateLimiter{}, limiter)
	require.NoError(t, closeFn())

	_, _, err = newLimiter(ctx, "http://not-redis", logger)
	require.Error(t, err)

	limiter, closeFn, err = newLimiter(ctx, "redis://127.0.0.1:1/0", logger)
	require.NoError(t, err)
	assert.IsType(t, &httpmw.RateLimiter{}, limiter)
	require.NoError(t, closeFn())
}
