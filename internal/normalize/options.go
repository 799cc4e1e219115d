package normalize

import (
	"fmt"
	"reflect"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Options converts a formatting-option record into a canonical map with the
// same keys in the same order. Tuples and arrays become sequences of
// primitives, scalars pass through, and anything else is rejected.
func Options(opts table.Options) (canon.Value, error) {
	m := canon.NewMap()
	for _, opt := range opts {
		v, err := option("kwargs."+opt.Name, opt.Value)
		if err != nil {
			return canon.Value{}, err
		}
		m.Set(opt.Name, v)
	}
	return canon.FromMap(m), nil
}

func option(path string, x any) (canon.Value, error) {
	switch v := x.(type) {
	case nil:
		return canon.Null(), nil
	case canon.Value:
		return v, nil
	case table.Scalar:
		return scalar(v), nil
	case *table.Grid:
		if v == nil {
			return canon.Null(), nil
		}
		return grid(path, v)
	case table.Grid:
		return grid(path, &v)
	}

	rv := reflect.ValueOf(x)
	if p, ok := primitive(rv); ok {
		return p, nil
	}
	if isSequence(rv) {
		items := make([]canon.Value, rv.Len())
		for i := range items {
			item, err := element(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface())
			if err != nil {
				return canon.Value{}, err
			}
			items[i] = item
		}
		return canon.Seq(items...), nil
	}
	return canon.Value{}, errors.UnsupportedType(path, x)
}

// element converts one member of a tuple- or array-shaped option value.
func element(path string, x any) (canon.Value, error) {
	switch v := x.(type) {
	case nil:
		return canon.Null(), nil
	case table.Scalar:
		return scalar(v), nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return element(path, rv.Elem().Interface())
	}
	if p, ok := primitive(rv); ok {
		return p, nil
	}
	return canon.Value{}, errors.UnsupportedType(path, x)
}
