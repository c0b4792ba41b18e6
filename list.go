package envvar

import (
	"net/url"
	"regexp"
	"time"
)

// Variables is a list of accessors produced by Variable.Each.
type Variables []*Variable

// Each converts a variable into a list of variables where each list item is
// obtained by splitting the effective value by a delimiter (default ",").
// Converting to a list of variables can be useful if there is a need to
// validate and convert each item independently. Configured runners are
// copied to every item; the required and base64 flags are not, since the
// items share the presence of the parent and the parent's value was already
// decoded if requested.
func (v *Variable) Each(delimiter ...string) (Variables, error) {
	delim := ","
	if len(delimiter) > 0 {
		delim = delimiter[0]
	}

	// split on a copy without runners so that configured runners apply to
	// the items, not to the joined value
	base := &Variable{
		Name:       v.Name,
		Val:        v.Val,
		Exist:      v.Exist,
		defaultVal: v.defaultVal,
		hasDefault: v.hasDefault,
		required:   v.required,
		fromBase64: v.fromBase64,
		srcErr:     v.srcErr,
	}
	parts, err := base.StringSlice(delim)
	if err != nil {
		return nil, err
	}

	vars := make(Variables, len(parts))
	for i, val := range parts {
		runners := make([]Runner, len(v.runners))
		copy(runners, v.runners)
		vars[i] = &Variable{
			Name:    v.Name,
			Val:     val,
			Exist:   true,
			runners: runners,
		}
	}
	return vars, nil
}

func (v Variables) NotEmpty() Variables {
	v.appendRunners(NotEmpty)
	return v
}

func (v Variables) MatchRegexp(expr *regexp.Regexp) Variables {
	v.appendRunners(MatchRegexp(expr))
	return v
}

func (v Variables) ValidIPAddress() Variables {
	v.appendRunners(IPAddress)
	return v
}

func (v Variables) ValidPortNumber() Variables {
	v.appendRunners(PortNumber)
	return v
}

func (v Variables) MinInt(min int64) Variables {
	v.appendRunners(MinInt(min))
	return v
}

func (v Variables) MaxInt(max int64) Variables {
	v.appendRunners(MaxInt(max))
	return v
}

func (v Variables) IntRange(min, max int64) Variables {
	v.appendRunners(MinInt(min), MaxInt(max))
	return v
}

func (v Variables) WithRunners(runners ...Runner) Variables {
	v.appendRunners(runners...)
	return v
}

func (v Variables) StringSlice() ([]string, error) {
	return varsToSliceOf(v, (*Variable).String)
}

func (v Variables) IntSlice() ([]int, error) {
	return varsToSliceOf(v, (*Variable).Int)
}

func (v Variables) Int64Slice() ([]int64, error) {
	return varsToSliceOf(v, (*Variable).Int64)
}

func (v Variables) Float64Slice() ([]float64, error) {
	return varsToSliceOf(v, (*Variable).Float64)
}

func (v Variables) BoolSlice() ([]bool, error) {
	return varsToSliceOf(v, (*Variable).Bool)
}

func (v Variables) URLSlice() ([]*url.URL, error) {
	return varsToSliceOf(v, (*Variable).URL)
}

func (v Variables) DurationSlice() ([]time.Duration, error) {
	return varsToSliceOf(v, (*Variable).Duration)
}

func (v Variables) appendRunners(runners ...Runner) {
	for _, vv := range v {
		vv.runners = append(vv.runners, runners...)
	}
}

func varsToSliceOf[T any](vars Variables, f func(variable *Variable) (T, error)) ([]T, error) {
	result := make([]T, len(vars))
	for i, vv := range vars {
		val, err := f(vv)
		if err != nil {
			return nil, err
		}
		result[i] = val
	}
	return result, nil
}
