package recipe

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	// ErrUnknownOption is returned when setting an option the recipe never declared.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOptionValue is returned when a value is outside an option's domain.
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// Bool is the domain of a boolean option.
var Bool = []string{"True", "False"}

// Options is the option set of a recipe instance. Each option has a declared
// domain and a current value. Options removed with RmSafe are gone for the
// rest of the instance's lifetime.
type Options struct {
	domains map[string][]string
	values  map[string]string
}

// NewOptions creates an option set from declared domains and default values.
// An option without a default takes the first value of its domain.
func NewOptions(domains map[string][]string, defaults map[string]string) *Options {
	o := &Options{
		domains: make(map[string][]string, len(domains)),
		values:  make(map[string]string, len(domains)),
	}
	for name, domain := range domains {
		o.domains[name] = slices.Clone(domain)
		if def, ok := defaults[name]; ok {
			o.values[name] = normalize(domain, def)
		} else if len(domain) > 0 {
			o.values[name] = domain[0]
		}
	}
	return o
}

// Has reports whether the option is present.
func (o *Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Get returns the value of an option.
func (o *Options) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Bool reports whether the option is present and true.
func (o *Options) Bool(name string) bool {
	v, ok := o.values[name]
	if !ok {
		return false
	}
	return isTrue(v)
}

// Set assigns a value to an existing option. The value must belong to the
// option's domain; boolean spellings such as "true" or "1" are accepted for
// boolean options.
func (o *Options) Set(name, value string) error {
	domain, ok := o.domains[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if !o.Has(name) {
		return fmt.Errorf("%w: %s was removed", ErrUnknownOption, name)
	}
	v := normalize(domain, value)
	if len(domain) > 0 && !slices.Contains(domain, v) {
		return fmt.Errorf("%w: %s=%s (possible values: %s)",
			ErrInvalidOptionValue, name, value, strings.Join(domain, ", "))
	}
	o.values[name] = v
	return nil
}

// Declared reports whether the recipe declared the option, even if it has
// been removed since.
func (o *Options) Declared(name string) bool {
	_, ok := o.domains[name]
	return ok
}

// RmSafe removes an option. Removing an absent option is a no-op.
func (o *Options) RmSafe(name string) {
	delete(o.values, name)
}

// Names returns the present option names in sorted order.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.values))
	for name := range o.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the present options.
func (o *Options) Values() map[string]string {
	out := make(map[string]string, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

// String returns the canonical form "a=v1,b=v2" sorted by option name.
func (o *Options) String() string {
	names := o.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+o.values[name])
	}
	return strings.Join(parts, ",")
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func isFalse(v string) bool {
	switch strings.ToLower(v) {
	case "false", "0", "no", "off":
		return true
	}
	return false
}

// normalize maps boolean spellings onto "True"/"False" for boolean domains.
func normalize(domain []string, v string) string {
	if len(domain) != 2 || !slices.Contains(domain, "True") || !slices.Contains(domain, "False") {
		return v
	}
	switch {
	case isTrue(v):
		return "True"
	case isFalse(v):
		return "False"
	}
	return v
}

// FormatBool returns the option spelling of b.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
