package envvar

// Source is an interface for any data source that can be used to look up
// raw variable values.
type Source interface {
	// Lookup retrieves a value by name from the source.
	// It returns the value as a string, a boolean flag indicating if the value was found,
	// and an error if there was a problem accessing the source.
	Lookup(name string) (value string, found bool, err error)

	// Name returns a human-readable name of the source for debugging or logging purposes.
	Name() string
}

// Enumerable is implemented by sources that can dump their entire mapping.
// It is optional; Env.Environ skips sources that do not implement it.
type Enumerable interface {
	// Environ returns a copy of all key/value pairs the source currently holds.
	Environ() map[string]string
}
