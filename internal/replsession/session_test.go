package replsession

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalStoresTerminalValue(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))

	result := s.Execute(`FINAL(42)`)
	require.False(t, result.HasError)
	require.True(t, result.Terminal.Set)
	require.Equal(t, int64(42), result.Terminal.Value)
}

func TestFinalNoneIsDistinctFromNotCalled(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))

	notCalled := s.Execute(`x = 1 + 1`)
	require.False(t, notCalled.Terminal.Set)

	s2 := New()
	require.NoError(t, s2.InstallBuiltins(nil))
	called := s2.Execute(`FINAL(null)`)
	require.True(t, called.Terminal.Set)
	require.Nil(t, called.Terminal.Value)
}

func TestGlobalsPersistAcrossExecuteCalls(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))

	s.Execute(`x = 2 + 2`)
	result := s.Execute(`println(x)`)
	require.False(t, result.HasError)
	require.Contains(t, result.Output, "4")
}

func TestUncaughtExceptionIsCapturedNotFatal(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))

	result := s.Execute(`throw new Error("boom")`)
	require.True(t, result.HasError)
	require.Contains(t, result.Output, "boom")

	// The session itself is still usable afterwards.
	recovered := s.Execute(`FINAL("recovered")`)
	require.False(t, recovered.HasError)
	require.Equal(t, "recovered", recovered.Terminal.Value)
}

func TestLLMQuerySurfacesChildErrorAsCatchableException(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))
	require.NoError(t, s.InstallLLMQuery(func(ctx string) (any, error) {
		return nil, errors.New("max depth exceeded")
	}))

	result := s.Execute(`llm_query("sub task")`)
	require.True(t, result.HasError)
	require.Contains(t, result.Output, "max depth exceeded")
}

func TestLLMQueryReturnsChildValueInPlace(t *testing.T) {
	s := New()
	require.NoError(t, s.InstallBuiltins(nil))
	require.NoError(t, s.InstallLLMQuery(func(ctx string) (any, error) {
		return int64(5), nil
	}))

	result := s.Execute(`sub = llm_query("count letters in 'hello'"); FINAL(sub)`)
	require.False(t, result.HasError)
	require.Equal(t, int64(5), result.Terminal.Value)
}
