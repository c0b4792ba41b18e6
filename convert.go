package envvar

import "errors"

// ConverterFunc converts the effective string value of a variable into a
// typed value, or reports why the string is invalid for that type.
type ConverterFunc[T any] func(value string) (T, error)

// As resolves the variable through the full pipeline and applies fn to the
// effective value. It is the extension point for custom types: every
// built-in terminal method goes through it, and new conversions need
// nothing more than a ConverterFunc.
//
//	port, err := envvar.As(envvar.Get("ADDR"), "tcp addr", parseAddr)
//
// An absent non-required variable yields the zero value of T with a nil
// error. A failing converter is reported as an Error with Cause
// ErrConversion, carrying the variable name, typeName and offending value;
// converters that already return an Error (e.g. validator runners reused as
// converters) are passed through untouched.
func As[T any](v *Variable, typeName string, fn ConverterFunc[T]) (T, error) {
	var zero T

	val, present, err := v.resolve(typeName)
	if err != nil {
		return zero, err
	}
	if !present {
		return zero, nil
	}

	result, err := fn(val)
	if err != nil {
		var e Error
		if errors.As(err, &e) {
			return zero, e
		}
		return zero, conversionError(v.Name, typeName, val, err.Error())
	}
	return result, nil
}
