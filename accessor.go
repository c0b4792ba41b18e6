package envvar

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Variable is a per-lookup accessor. It accumulates configuration through
// chainable calls and resolves to a typed value (or an Error) when one of
// its terminal methods is invoked. Every terminal call runs the same
// pipeline against the stored raw value: default substitution, required
// check, base64 decode, validator runners, type conversion. The order in
// which configuration methods were called does not matter.
type Variable struct {
	Name  string
	Val   string
	Exist bool

	defaultVal string
	hasDefault bool
	required   bool
	fromBase64 bool
	srcErr     error
	runners    []Runner
}

// IsSet reports whether the variable was found in a source.
// A set variable with an empty value still counts as set.
func (v *Variable) IsSet() bool {
	return v.Exist
}

// Default sets the value substituted when the variable is not set in any
// source. The default goes through the same decode, validation and
// conversion steps as a real value.
func (v *Variable) Default(val string) *Variable {
	v.defaultVal = val
	v.hasDefault = true
	return v
}

// Required makes terminal methods fail with ErrNotFound when the variable
// is absent and no default was given.
func (v *Variable) Required() *Variable {
	v.required = true
	return v
}

// RequiredIf marks the variable required only when cond is true.
func (v *Variable) RequiredIf(cond bool) *Variable {
	if cond {
		v.required = true
	}
	return v
}

// ConvertFromBase64 marks the value as base64-encoded. The value is decoded
// once, after the required check and before validation and conversion.
// Calling it multiple times has no further effect.
func (v *Variable) ConvertFromBase64() *Variable {
	v.fromBase64 = true
	return v
}

func (v *Variable) ExactLength(length int) *Variable {
	v.runners = append(v.runners, ExactLength(length))
	return v
}

func (v *Variable) MinLength(min int) *Variable {
	v.runners = append(v.runners, MinLength(min))
	return v
}

func (v *Variable) MaxLength(max int) *Variable {
	v.runners = append(v.runners, MaxLength(max))
	return v
}

func (v *Variable) MinInt(min int64) *Variable {
	v.runners = append(v.runners, MinInt(min))
	return v
}

func (v *Variable) MaxInt(max int64) *Variable {
	v.runners = append(v.runners, MaxInt(max))
	return v
}

func (v *Variable) IntRange(min, max int64) *Variable {
	v.runners = append(v.runners, MinInt(min), MaxInt(max))
	return v
}

func (v *Variable) MinFloat(min float64) *Variable {
	v.runners = append(v.runners, MinFloat(min))
	return v
}

func (v *Variable) MaxFloat(max float64) *Variable {
	v.runners = append(v.runners, MaxFloat(max))
	return v
}

func (v *Variable) FloatRange(min, max float64) *Variable {
	v.runners = append(v.runners, MinFloat(min), MaxFloat(max))
	return v
}

func (v *Variable) NotEmpty() *Variable {
	v.runners = append(v.runners, NotEmpty)
	return v
}

func (v *Variable) NotEmptyIf(cond bool) *Variable {
	if cond {
		v.runners = append(v.runners, NotEmpty)
	}
	return v
}

func (v *Variable) MatchRegexp(expr *regexp.Regexp) *Variable {
	v.runners = append(v.runners, MatchRegexp(expr))
	return v
}

func (v *Variable) ValidIPAddress() *Variable {
	v.runners = append(v.runners, IPAddress)
	return v
}

func (v *Variable) ValidPortNumber() *Variable {
	v.runners = append(v.runners, PortNumber)
	return v
}

func (v *Variable) Expand() *Variable {
	v.runners = append(v.runners, ExpandVars)
	return v
}

func (v *Variable) Or(r1, r2 Runner) *Variable {
	v.runners = append(v.runners, OR(r1, r2))
	return v
}

func (v *Variable) WithRunners(runners ...Runner) *Variable {
	v.runners = append(v.runners, runners...)
	return v
}

// resolve runs the pipeline up to (but not including) type conversion.
// The returned flag reports whether an effective value is present;
// absence without the required flag is not an error. typ is the target
// type of the terminal call, used when the decode step fails.
func (v *Variable) resolve(typ string) (string, bool, error) {
	if v.srcErr != nil {
		return "", false, Error{
			VarName: v.Name,
			Reason:  "cannot be read from source",
			Cause:   v.srcErr,
		}
	}

	val, present := v.Val, v.Exist
	if !present && v.hasDefault {
		val, present = v.defaultVal, true
	}
	if !present {
		if v.required {
			return "", false, notFoundError(v.Name)
		}
		return "", false, nil
	}

	if v.fromBase64 {
		decoded, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return "", false, conversionError(v.Name, typ, val, "invalid base64 encoding")
		}
		val = string(decoded)
	}

	for _, r := range v.runners {
		var err error
		if val, err = r(v.Name, val); err != nil {
			return "", false, err
		}
	}

	return val, true, nil
}

// String returns the value as-is. An absent non-required variable yields ""
// with a nil error; use IsSet to tell it apart from a real empty value.
func (v *Variable) String() (string, error) {
	return As(v, "string", func(s string) (string, error) {
		return s, nil
	})
}

func (v *Variable) Int() (int, error) {
	result, err := v.Int64()
	return int(result), err
}

// Int64 parses the value as a base-10 integer. An optional leading "+" or
// "-" is accepted; whitespace and fractional parts are not.
func (v *Variable) Int64() (int64, error) {
	return As(v, "int", parseInt)
}

// IntPositive is Int with the additional requirement that the value is
// strictly greater than zero.
func (v *Variable) IntPositive() (int, error) {
	result, err := As(v, "positive int", func(s string) (int64, error) {
		n, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			return 0, errors.New("must be greater than 0")
		}
		return n, nil
	})
	return int(result), err
}

// IntNegative is Int with the additional requirement that the value is
// strictly less than zero.
func (v *Variable) IntNegative() (int, error) {
	result, err := As(v, "negative int", func(s string) (int64, error) {
		n, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		if n >= 0 {
			return 0, errors.New("must be less than 0")
		}
		return n, nil
	})
	return int(result), err
}

func (v *Variable) Uint() (uint, error) {
	result, err := v.Uint64()
	return uint(result), err
}

func (v *Variable) Uint64() (uint64, error) {
	return As(v, "uint", func(s string) (uint64, error) {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, errors.New("must be a valid unsigned integer value")
		}
		return n, nil
	})
}

func (v *Variable) Float64() (float64, error) {
	return As(v, "float", parseFloat)
}

func (v *Variable) Float32() (float32, error) {
	result, err := v.Float64()
	return float32(result), err
}

// FloatPositive is Float64 restricted to values strictly greater than zero.
func (v *Variable) FloatPositive() (float64, error) {
	return As(v, "positive float", func(s string) (float64, error) {
		f, err := parseFloat(s)
		if err != nil {
			return 0, err
		}
		if f <= 0 {
			return 0, errors.New("must be greater than 0")
		}
		return f, nil
	})
}

// FloatNegative is Float64 restricted to values strictly less than zero.
func (v *Variable) FloatNegative() (float64, error) {
	return As(v, "negative float", func(s string) (float64, error) {
		f, err := parseFloat(s)
		if err != nil {
			return 0, err
		}
		if f >= 0 {
			return 0, errors.New("must be less than 0")
		}
		return f, nil
	})
}

// Bool accepts "true", "false", "1" and "0", case-insensitively.
func (v *Variable) Bool() (bool, error) {
	return As(v, "bool", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, errors.New(`must be "true", "false", "1" or "0"`)
	})
}

// BoolStrict accepts only "true" and "false", case-insensitively.
func (v *Variable) BoolStrict() (bool, error) {
	return As(v, "strict bool", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, errors.New(`must be "true" or "false"`)
	})
}

// JSON parses the value as an arbitrary JSON document.
func (v *Variable) JSON() (any, error) {
	return As(v, "json", parseJSON)
}

// JSONArray parses the value as JSON and requires the result to be an array.
func (v *Variable) JSONArray() ([]any, error) {
	return As(v, "json array", func(s string) ([]any, error) {
		parsed, err := parseJSON(s)
		if err != nil {
			return nil, err
		}
		arr, ok := parsed.([]any)
		if !ok {
			return nil, errors.New("is not a json array")
		}
		return arr, nil
	})
}

// JSONObject parses the value as JSON and requires the result to be an object.
func (v *Variable) JSONObject() (map[string]any, error) {
	return As(v, "json object", func(s string) (map[string]any, error) {
		parsed, err := parseJSON(s)
		if err != nil {
			return nil, err
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return nil, errors.New("is not a json object")
		}
		return obj, nil
	})
}

// StringSlice splits the value on every occurrence of the delimiter
// (default ","). Segments are kept verbatim: no trimming, no dropping of
// empty segments. An absent non-required variable yields nil.
func (v *Variable) StringSlice(delimiter ...string) ([]string, error) {
	delim := ","
	if len(delimiter) > 0 {
		delim = delimiter[0]
	}
	return As(v, "array", func(s string) ([]string, error) {
		return strings.Split(s, delim), nil
	})
}

// UniqueStringSlice is StringSlice with duplicate segments removed,
// keeping first occurrences in order.
func (v *Variable) UniqueStringSlice(delimiter ...string) ([]string, error) {
	result, err := v.StringSlice(delimiter...)
	if err != nil || len(result) < 2 {
		return result, err
	}
	set := map[string]struct{}{}
	unique := make([]string, 0, len(result))
	for _, val := range result {
		if _, ok := set[val]; ok {
			continue
		}
		set[val] = struct{}{}
		unique = append(unique, val)
	}
	return unique, nil
}

// MapStringString parses "k1=v1,k2=v2" pairs into a map.
// Keys and values are trimmed; malformed pairs are skipped.
func (v *Variable) MapStringString() (map[string]string, error) {
	return As(v, "map", func(s string) (map[string]string, error) {
		result := make(map[string]string)
		for _, pair := range strings.Split(s, ",") {
			k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				continue
			}
			result[strings.TrimSpace(k)] = strings.TrimSpace(val)
		}
		return result, nil
	})
}

// URLString validates that the value is a well-formed absolute URL and
// returns it unchanged.
func (v *Variable) URLString() (string, error) {
	return As(v, "url", func(s string) (string, error) {
		if _, err := url.ParseRequestURI(s); err != nil {
			return "", errors.New("must be a valid URL")
		}
		return s, nil
	})
}

// URL validates and parses the value into a structured URL.
// An absent non-required variable yields nil.
func (v *Variable) URL() (*url.URL, error) {
	return As(v, "url", func(s string) (*url.URL, error) {
		u, err := url.ParseRequestURI(s)
		if err != nil {
			return nil, errors.New("must be a valid URL")
		}
		return u, nil
	})
}

// Enum requires the value to exactly match one of the given values.
func (v *Variable) Enum(values ...string) (string, error) {
	return As(v, "enum", func(s string) (string, error) {
		for _, value := range values {
			if value == s {
				return s, nil
			}
		}
		return "", fmt.Errorf("must be one of the following values '%s'", strings.Join(values, "', '"))
	})
}

func (v *Variable) Duration() (time.Duration, error) {
	return As(v, "duration", func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, errors.New("must be a valid time duration value")
		}
		return d, nil
	})
}

func (v *Variable) Time(layout string) (time.Time, error) {
	return As(v, "time", func(s string) (time.Time, error) {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("must be a valid time in format '%s'", layout)
		}
		return t, nil
	})
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("must be a valid integer value")
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a valid float value")
	}
	return f, nil
}

func parseJSON(s string) (any, error) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, errors.New("must be valid json")
	}
	return out, nil
}

// Runner validates or rewrites the effective value of a variable.
// Runners execute after default substitution and base64 decoding, in the
// order they were added, before the terminal conversion.
type Runner func(name, value string) (string, error)

func NotEmpty(name, value string) (string, error) {
	if value == "" {
		return "", conversionError(name, "", value, "has empty value")
	}
	return value, nil
}

// ExpandVars replaces ${var} or $var references in the value with the
// corresponding process environment values.
func ExpandVars(name, value string) (string, error) {
	return os.ExpandEnv(value), nil
}

func MatchRegexp(expr *regexp.Regexp) Runner {
	return func(name, value string) (string, error) {
		if !expr.MatchString(value) {
			return "", conversionError(name, "", value,
				fmt.Sprintf("does not match regular expression '%s'", expr.String()))
		}
		return value, nil
	}
}

func IPAddress(name, value string) (string, error) {
	if net.ParseIP(value) == nil {
		return "", conversionError(name, "", value, "not valid IP address")
	}
	return value, nil
}

func PortNumber(name, value string) (string, error) {
	port, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return "", conversionError(name, "", value, "not valid number")
	}
	if port < 1 || port > 65535 {
		return "", conversionError(name, "", value, "out of port range")
	}
	return value, nil
}

// OR accepts the value when either runner accepts it. The value produced
// by the first accepting runner is used.
func OR(r1, r2 Runner) Runner {
	return func(name, value string) (string, error) {
		if out, err := r1(name, value); err == nil {
			return out, nil
		}
		return r2(name, value)
	}
}

func ExactLength(length int) Runner {
	return func(name, value string) (string, error) {
		if len(value) != length {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be %d characters long", length))
		}
		return value, nil
	}
}

func MinLength(min int) Runner {
	return func(name, value string) (string, error) {
		if len(value) < min {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be at least %d characters long", min))
		}
		return value, nil
	}
}

func MaxLength(max int) Runner {
	return func(name, value string) (string, error) {
		if len(value) > max {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be no more than %d characters long", max))
		}
		return value, nil
	}
}

func MinInt(min int64) Runner {
	return func(name, value string) (string, error) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", conversionError(name, "int", value, "must be a valid integer value")
		}
		if n < min {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be greater than or equal to %d", min))
		}
		return value, nil
	}
}

func MaxInt(max int64) Runner {
	return func(name, value string) (string, error) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", conversionError(name, "int", value, "must be a valid integer value")
		}
		if n > max {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be less than or equal to %d", max))
		}
		return value, nil
	}
}

func MinFloat(min float64) Runner {
	return func(name, value string) (string, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", conversionError(name, "float", value, "must be a valid float value")
		}
		if f < min {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be greater than or equal to %f", min))
		}
		return value, nil
	}
}

func MaxFloat(max float64) Runner {
	return func(name, value string) (string, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", conversionError(name, "float", value, "must be a valid float value")
		}
		if f > max {
			return "", conversionError(name, "", value,
				fmt.Sprintf("must be less than or equal to %f", max))
		}
		return value, nil
	}
}
