package envvar_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/ChibiBlasphem/env-var"
)

func parseCIDR(s string) (*net.IPNet, error) {
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, errors.New("must be a valid CIDR block")
	}
	return ipnet, nil
}

func TestAs_CustomConverter(t *testing.T) {
	env := From(map[string]string{
		"ALLOWED_NET": "10.0.0.0/8",
		"BROKEN_NET":  "10.0.0.0",
	})

	ipnet, err := As(env.Get("ALLOWED_NET"), "cidr", parseCIDR)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.0/8", ipnet.String())

	_, err = As(env.Get("BROKEN_NET"), "cidr", parseCIDR)
	require.ErrorIs(t, err, ErrConversion)

	var e Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "BROKEN_NET", e.VarName)
	require.Equal(t, "cidr", e.Type)
	require.Equal(t, "10.0.0.0", e.Value)
}

func TestAs_PipelineApplies(t *testing.T) {
	env := From(map[string]string{})

	// absent and not required: zero value, no conversion attempted
	ipnet, err := As(env.Get("ALLOWED_NET"), "cidr", parseCIDR)
	require.NoError(t, err)
	require.Nil(t, ipnet)

	// absent and required: not-found error before the converter runs
	_, err = As(env.Get("ALLOWED_NET").Required(), "cidr", parseCIDR)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAs_PassesThroughRunnerErrors(t *testing.T) {
	env := From(map[string]string{"NET": ""})

	_, err := As(env.Get("NET").NotEmpty(), "cidr", parseCIDR)
	require.ErrorIs(t, err, ErrConversion)

	var e Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "NET", e.VarName)
}
