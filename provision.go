package envvar

import "errors"

// Getter produces one typed value, usually a bound terminal method such as
// env.Get("PORT").IntPositive.
type Getter[T any] func() (T, error)

// Default wraps a getter with a typed fallback used when the variable is not
// set in any source. Unlike Variable.Default, the fallback bypasses the
// pipeline entirely: it is never decoded, validated or converted.
//
//	v := env.Get("TIMEOUT")
//	timeout, err := Default(5*time.Second, v, v.Duration)()
func Default[T any](defaultVal T, v *Variable, g Getter[T]) Getter[T] {
	return func() (T, error) {
		val, err := g()
		if err != nil || v.Exist {
			return val, err
		}
		return defaultVal, nil
	}
}

// Setter assigns one resolved value to its destination.
type Setter func() error

// Set binds a getter to a destination. The destination is written only when
// the getter succeeds.
func Set[T any](target *T, g Getter[T]) Setter {
	return func() error {
		val, err := g()
		if err != nil {
			return err
		}
		*target = val
		return nil
	}
}

// Supply runs every setter and joins the failures, so a single call reports
// all misconfigured variables at once instead of stopping at the first one.
func Supply(setters ...Setter) error {
	var errs []error
	for _, set := range setters {
		if err := set(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Prototype represents a variable prototype that can be customized with runners and a prefix
type Prototype struct {
	env     *Env
	prefix  string
	runners []Runner
}

// CreatePrototype returns a new instance of Prototype bound to the DefaultEnv
func CreatePrototype() *Prototype {
	return &Prototype{env: DefaultEnv}
}

// WithEnv binds the Prototype to a specific Env
func (p *Prototype) WithEnv(env *Env) *Prototype {
	p.env = env
	return p
}

// WithPrefix sets a prefix for the Prototype
func (p *Prototype) WithPrefix(prefix string) *Prototype {
	p.prefix = prefix
	return p
}

// WithRunners appends the provided runners to the prototype
func (p *Prototype) WithRunners(runners ...Runner) *Prototype {
	p.runners = append(p.runners, runners...)
	return p
}

// Get retrieves a variable by name based on the prototype configuration
func (p *Prototype) Get(name string) *Variable {
	return p.copyRunners(p.env.Get(p.prefix + name))
}

// Coalesce retrieves the first available variable from the given names
// based on the prototype configuration
func (p *Prototype) Coalesce(names ...string) *Variable {
	prefixed := make([]string, len(names))
	for i, n := range names {
		prefixed[i] = p.prefix + n
	}
	return p.copyRunners(p.env.Coalesce(prefixed...))
}

// copyRunners copies runners from a prototype to a variable
func (p *Prototype) copyRunners(v *Variable) *Variable {
	if v == nil {
		return v
	}
	v.runners = make([]Runner, len(p.runners))
	copy(v.runners, p.runners)

	return v
}
