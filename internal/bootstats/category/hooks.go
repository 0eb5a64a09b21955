package category

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var (
	specType     = reflect.TypeOf(Spec{})
	specListType = reflect.TypeOf([]Spec{})
)

// DecodeHooks lets configuration express categories either as strings ("gender,smoke"), as YAML lists
// ([gender, smoke]) or, for the whole list, as a single semicolon-separated string ("gender;gender,smoke")
// which is how they arrive from the environment.
func DecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{SpecListHookFunc(), SpecHookFunc()}
}

// SpecListHookFunc decodes a semicolon-separated string into []Spec.
func SpecListHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != specListType {
			return data, nil
		}
		return ParseList(data.(string)), nil
	}
}

// SpecHookFunc decodes a comma-separated string or a list of strings into a Spec.
func SpecHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != specType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return Parse(v), nil
		case []string:
			return New(v...), nil
		case []interface{}:
			columns := make([]string, len(v))
			for i, c := range v {
				s, ok := c.(string)
				if !ok {
					return nil, errors.Errorf("category column %v is a %T, not a string", c, c)
				}
				columns[i] = s
			}
			return New(columns...), nil
		default:
			return data, nil
		}
	}
}
