package table

// Option is one named formatting option.
type Option struct {
	Name  string
	Value any
}

// Options is an ordered record of formatting options, passed to the renderer
// as keyword arguments.
type Options []Option

// Kwargs builds Options from alternating name/value pairs. It panics on an odd
// argument count or a non-string name, since it is only used for literal case
// definitions.
func Kwargs(pairs ...any) Options {
	if len(pairs)%2 != 0 {
		panic("table.Kwargs: odd number of arguments")
	}
	var opts Options
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("table.Kwargs: option name must be a string")
		}
		opts = opts.Set(name, pairs[i+1])
	}
	return opts
}

// Set returns opts with name bound to value. An existing option keeps its
// position.
func (o Options) Set(name string, value any) Options {
	for i := range o {
		if o[i].Name == name {
			out := append(Options(nil), o...)
			out[i].Value = value
			return out
		}
	}
	return append(append(Options(nil), o...), Option{Name: name, Value: value})
}

// Get returns the value of the named option.
func (o Options) Get(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return nil, false
}

// Keys returns option names in order.
func (o Options) Keys() []string {
	keys := make([]string, len(o))
	for i, opt := range o {
		keys[i] = opt.Name
	}
	return keys
}

// Format returns the tablefmt option, or "" when unset.
func (o Options) Format() string {
	v, _ := o.Get("tablefmt")
	s, _ := v.(string)
	return s
}
