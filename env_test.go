package envvar_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/ChibiBlasphem/env-var"
)

type failingSource struct{}

func (failingSource) Lookup(string) (string, bool, error) {
	return "", false, errors.New("backend unavailable")
}

func (failingSource) Name() string { return "Failing" }

func TestEnv_From(t *testing.T) {
	env := From(map[string]string{"APP_NAME": "metering"})

	got, err := env.Get("APP_NAME").String()
	require.NoError(t, err)
	require.Equal(t, "metering", got)

	v := env.Get("MISSING")
	require.False(t, v.IsSet())
}

func TestEnv_SourcePriority(t *testing.T) {
	env := New(
		NewMapSource(map[string]string{"PORT": "8080"}, "primary"),
		NewMapSource(map[string]string{"PORT": "9090", "HOST": "localhost"}, "secondary"),
	)

	port, err := env.Get("PORT").Int()
	require.NoError(t, err)
	require.Equal(t, 8080, port)

	host, err := env.Get("HOST").String()
	require.NoError(t, err)
	require.Equal(t, "localhost", host)
}

func TestEnv_AddSource(t *testing.T) {
	env := From(map[string]string{"A": "1"})
	env.AddSource(NewMapSource(map[string]string{"B": "2"}, ""))

	b, err := env.Get("B").Int()
	require.NoError(t, err)
	require.Equal(t, 2, b)
}

func TestEnv_Coalesce(t *testing.T) {
	env := From(map[string]string{
		"SECONDARY": "fallback",
		"BLANK":     "",
	})

	got, err := env.Coalesce("PRIMARY", "SECONDARY").String()
	require.NoError(t, err)
	require.Equal(t, "fallback", got)

	// empty values are skipped
	got, err = env.Coalesce("BLANK", "SECONDARY").String()
	require.NoError(t, err)
	require.Equal(t, "fallback", got)

	// the accessor reports under the first name
	v := env.Coalesce("PRIMARY", "NOPE")
	require.Equal(t, "PRIMARY", v.Name)
	require.False(t, v.IsSet())
}

func TestEnv_Environ(t *testing.T) {
	env := New(
		NewMapSource(map[string]string{"PORT": "8080"}, ""),
		NewMapSource(map[string]string{"PORT": "9090", "HOST": "localhost"}, ""),
	)

	require.Equal(t, map[string]string{
		"PORT": "8080",
		"HOST": "localhost",
	}, env.Environ())
}

func TestEnv_BreakOnError(t *testing.T) {
	env := New(failingSource{}, NewMapSource(map[string]string{"KEY": "value"}, ""))

	_, err := env.Get("KEY").String()
	require.Error(t, err)

	var e Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "KEY", e.VarName)
}

func TestEnv_ContinueOnError(t *testing.T) {
	env := New(failingSource{}, NewMapSource(map[string]string{"KEY": "value"}, "")).
		WithErrorHandler(ContinueOnError)

	got, err := env.Get("KEY").String()
	require.NoError(t, err)
	require.Equal(t, "value", got)
}

func TestDefaultEnv_ReadsLiveEnvironment(t *testing.T) {
	t.Setenv("ENVVAR_TEST_LIVE", "first")

	got, err := Get("ENVVAR_TEST_LIVE").String()
	require.NoError(t, err)
	require.Equal(t, "first", got)

	// no snapshot: a change between calls is observable
	t.Setenv("ENVVAR_TEST_LIVE", "second")
	got, err = Get("ENVVAR_TEST_LIVE").String()
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestPrefixed(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_FALLBACK", "x")

	port, err := Prefixed("APP_").Get("PORT").Int()
	require.NoError(t, err)
	require.Equal(t, 8080, port)

	got, err := Prefixed("APP_").Coalesce("MISSING", "FALLBACK").String()
	require.NoError(t, err)
	require.Equal(t, "x", got)
}

func TestEnviron_ContainsLiveVariables(t *testing.T) {
	t.Setenv("ENVVAR_TEST_ENVIRON", "present")

	all := Environ()
	require.Equal(t, "present", all["ENVVAR_TEST_ENVIRON"])
}
