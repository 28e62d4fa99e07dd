package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	trerrors "github.com/trinity-method/trinity-sdk/pkg/errors"
	"github.com/trinity-method/trinity-sdk/pkg/testutil"
	"github.com/trinity-method/trinity-sdk/pkg/verify"
)

func deployed(t *testing.T) *testutil.Environment {
	t.Helper()
	env := testutil.NewEnvironment(t, testutil.EnvMemoryOnly)
	env.Deploy("2.1.0")
	return env
}

func TestVerify_Passes(t *testing.T) {
	env := deployed(t)

	warnings, err := verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestVerify_MissingCriticalPath(t *testing.T) {
	env := deployed(t)
	env.Remove("trinity/knowledge-base/Trinity.md")

	_, err := verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
	require.Error(t, err)
	assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrVerify))
	assert.Contains(t, err.Error(), "Knowledge base index (Trinity.md)")
}

func TestVerify_FirstFailingCheckWins(t *testing.T) {
	env := deployed(t)
	env.Remove(".claude/agents/planning")
	env.Remove("trinity/knowledge-base/Trinity.md")
	env.WriteFile("trinity/VERSION", "2.0.0")

	_, err := verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
	require.Error(t, err)
	assert.Equal(t, trerrors.ErrVerify, trerrors.GetErrorCode(err))
	assert.False(t, trerrors.IsErrorCode(err, trerrors.ErrVersionMismatch))
	assert.Equal(t, "Planning agents", trerrors.DetailString(err, "check"))
}

func TestVerify_VersionMismatch(t *testing.T) {
	tests := []struct {
		name    string
		marker  string
		version string
	}{
		{"older marker", "2.0.0", "2.1.0"},
		{"trailing newline", "2.1.0\n", "2.1.0"},
		{"prefix differs", "v2.1.0", "2.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := deployed(t)
			env.WriteFile("trinity/VERSION", tt.marker)

			_, err := verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
			require.Error(t, err)
			assert.True(t, trerrors.IsErrorCode(err, trerrors.ErrVersionMismatch))
			assert.Equal(t, tt.marker, trerrors.DetailString(err, "actual"))
		})
	}
}

func TestVerify_AdvisoryIsWarning(t *testing.T) {
	env := deployed(t)
	env.Remove("trinity/knowledge-base/ARCHITECTURE.md")

	warnings, err := verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Architecture notes")
}

func TestVerify_ReadOnly(t *testing.T) {
	env := deployed(t)
	env.WriteFile("trinity/VERSION", "2.0.0")
	before := env.Tree()

	_, _ = verify.NewVerifier(env.FS, nil).Verify(env.Root, "2.1.0")
	assert.Equal(t, before, env.Tree())
}

func TestDefaultChecks_Order(t *testing.T) {
	checks := verify.DefaultChecks()
	require.NotEmpty(t, checks)
	assert.Equal(t, "trinity", checks[0].Path)
	assert.Equal(t, verify.Critical, checks[0].Criticality)
	assert.Equal(t, "critical", verify.Critical.String())
	assert.Equal(t, "advisory", verify.Advisory.String())
}
