package envvar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/ChibiBlasphem/env-var"
)

func TestEach_IntSlice(t *testing.T) {
	env := From(map[string]string{"PORTS": "8080,8081,8082"})

	vars, err := env.Get("PORTS").Each()
	require.NoError(t, err)

	ports, err := vars.IntSlice()
	require.NoError(t, err)
	require.Equal(t, []int{8080, 8081, 8082}, ports)
}

func TestEach_CustomDelimiter(t *testing.T) {
	env := From(map[string]string{"HOSTS": "a.example.com|b.example.com"})

	vars, err := env.Get("HOSTS").Each("|")
	require.NoError(t, err)

	hosts, err := vars.StringSlice()
	require.NoError(t, err)
	require.Equal(t, []string{"a.example.com", "b.example.com"}, hosts)
}

func TestEach_PerItemValidation(t *testing.T) {
	env := From(map[string]string{"PORTS": "8080,99999"})

	vars, err := env.Get("PORTS").Each()
	require.NoError(t, err)

	_, err = vars.ValidPortNumber().IntSlice()
	require.ErrorIs(t, err, ErrConversion)
}

func TestEach_RunnersApplyToItems(t *testing.T) {
	env := From(map[string]string{"IPS": "10.0.0.1,10.0.0.2"})

	// the runner set on the parent must validate each item, not the joined value
	vars, err := env.Get("IPS").ValidIPAddress().Each()
	require.NoError(t, err)

	ips, err := vars.StringSlice()
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, ips)
}

func TestEach_Base64Parent(t *testing.T) {
	// base64 of "1,2,3"
	env := From(map[string]string{"NUMS": "MSwyLDM="})

	vars, err := env.Get("NUMS").ConvertFromBase64().Each()
	require.NoError(t, err)

	nums, err := vars.Int64Slice()
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, nums)
}

func TestEach_AbsentVariable(t *testing.T) {
	env := From(map[string]string{})

	vars, err := env.Get("UNSET").Each()
	require.NoError(t, err)
	require.Empty(t, vars)

	_, err = env.Get("UNSET").Required().Each()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVariables_TypedSlices(t *testing.T) {
	env := From(map[string]string{
		"FLAGS":  "true,false,1",
		"RATIOS": "0.5,1.5",
		"WAITS":  "1s,2m",
	})

	flagsVars, err := env.Get("FLAGS").Each()
	require.NoError(t, err)
	flags, err := flagsVars.BoolSlice()
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, flags)

	ratioVars, err := env.Get("RATIOS").Each()
	require.NoError(t, err)
	ratios, err := ratioVars.Float64Slice()
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1.5}, ratios)

	waitVars, err := env.Get("WAITS").Each()
	require.NoError(t, err)
	waits, err := waitVars.DurationSlice()
	require.NoError(t, err)
	require.Len(t, waits, 2)
	require.Equal(t, "1s", waits[0].String())
}
