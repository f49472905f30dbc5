package gateway

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DateLayout is the wire format of date columns.
const DateLayout = "2006-01-02"

var timeType = reflect.TypeOf(time.Time{})

// Decode copies the columns of row into the struct pointed to by out, using
// the struct's `db` tags. Numeric values are converted between int and
// float kinds, and date strings are parsed into time.Time fields. NULL
// columns leave the field at its zero value.
func Decode(row Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       stringToTimeHook,
	})
	if err != nil {
		return fmt.Errorf("gateway: decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return fmt.Errorf("gateway: decode row: %w", err)
	}
	return nil
}

// DecodeAll decodes every row into a freshly allocated T.
func DecodeAll[T any](rows []Row) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := Decode(r, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as a date", s)
}
