package envvar

// ErrorHandler defines how errors from sources should be handled
type ErrorHandler func(err error, sourceName string) (bool, error)

// ContinueOnError ignores source errors and continues to the next source
func ContinueOnError(err error, sourceName string) (bool, error) {
	return true, nil
}

// BreakOnError stops resolution on the first source error
func BreakOnError(err error, sourceName string) (bool, error) {
	return false, err
}

// Env is the entry point for variable lookups. It queries its sources
// sequentially, in the order they were provided, and hands the result to a
// Variable accessor. A source error is either skipped or carried inside the
// returned Variable (surfacing at the terminal call), depending on the
// configured error handler.
type Env struct {
	sources      []Source
	errorHandler ErrorHandler
}

// New creates a new Env with the given sources.
// Sources will be queried in the order they are provided.
// By default, uses BreakOnError as the error handler.
func New(sources ...Source) *Env {
	return &Env{
		sources:      sources,
		errorHandler: BreakOnError,
	}
}

// From creates an Env bound to the given in-memory values instead of the
// process environment. Intended for tests and non-standard runtimes.
func From(values map[string]string) *Env {
	return New(NewMapSource(values, ""))
}

// WithErrorHandler sets a custom error handler and returns the Env for chaining.
func (e *Env) WithErrorHandler(handler ErrorHandler) *Env {
	e.errorHandler = handler
	return e
}

// AddSource adds a new source to the end of the source list (lowest priority).
func (e *Env) AddSource(src Source) {
	e.sources = append(e.sources, src)
}

// Get looks up a variable by name from all registered sources and returns an
// accessor for it. The accessor is always usable; if a source failed and the
// error handler decided to break, the error is reported by the accessor's
// terminal method.
func (e *Env) Get(name string) *Variable {
	for _, src := range e.sources {
		val, exist, err := src.Lookup(name)
		if err != nil {
			continueResolution, handlerErr := e.handle(err, src.Name())
			if !continueResolution {
				return &Variable{Name: name, srcErr: handlerErr}
			}
			continue
		}
		if exist {
			return &Variable{
				Name:  name,
				Val:   val,
				Exist: true,
			}
		}
	}

	return &Variable{Name: name}
}

// Coalesce tries a list of variable names and returns the first one found
// with a non-empty value. Each name is tried in all sources before moving to
// the next name. The returned accessor reports under the first name.
func (e *Env) Coalesce(names ...string) *Variable {
	if len(names) == 0 {
		return &Variable{}
	}

	for _, name := range names {
		for _, src := range e.sources {
			val, exist, err := src.Lookup(name)
			if err != nil {
				continueResolution, handlerErr := e.handle(err, src.Name())
				if !continueResolution {
					return &Variable{Name: names[0], srcErr: handlerErr}
				}
				continue
			}
			if exist && val != "" {
				return &Variable{
					Name:  names[0],
					Val:   val,
					Exist: true,
				}
			}
		}
	}

	return &Variable{Name: names[0]}
}

// Environ returns the merged mapping of every enumerable source.
// For keys present in several sources the first source wins, mirroring
// Get's resolution order. Non-enumerable sources are skipped.
func (e *Env) Environ() map[string]string {
	m := make(map[string]string)
	for i := len(e.sources) - 1; i >= 0; i-- {
		enum, ok := e.sources[i].(Enumerable)
		if !ok {
			continue
		}
		for k, v := range enum.Environ() {
			m[k] = v
		}
	}
	return m
}

func (e *Env) handle(err error, sourceName string) (bool, error) {
	if e.errorHandler == nil {
		return false, err
	}
	return e.errorHandler(err, sourceName)
}

// DefaultEnv is the global Env used by the package-level functions.
// It reads the live process environment and ignores source errors
// (EnvSource never produces any).
var DefaultEnv = New(EnvSource{}).WithErrorHandler(ContinueOnError)

// Get looks up a variable by name from the DefaultEnv.
func Get(name string) *Variable {
	return DefaultEnv.Get(name)
}

// Coalesce tries a list of variable names and returns the first one found
// using the DefaultEnv.
func Coalesce(names ...string) *Variable {
	return DefaultEnv.Coalesce(names...)
}

// Environ returns the full mapping of the DefaultEnv.
func Environ() map[string]string {
	return DefaultEnv.Environ()
}

// Prefixed looks up variables under a common name prefix.
type Prefixed string

// Get looks up the prefixed variable name from the DefaultEnv.
func (p Prefixed) Get(name string) *Variable {
	return Get(string(p) + name)
}

// Coalesce tries the prefixed names in order and returns the first one found.
func (p Prefixed) Coalesce(names ...string) *Variable {
	prefixed := make([]string, len(names))
	for i, n := range names {
		prefixed[i] = string(p) + n
	}
	return Coalesce(prefixed...)
}
