package cmdutil

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/lepinkainen/barky/internal/tablestore"
)

// StructToRowOptions configures StructToRow behavior.
type StructToRowOptions struct {
	// OmitFields lists Go field names to leave out of the row
	OmitFields map[string]bool
	// OmitZero lists Go field names that are left out when they hold their zero value
	OmitZero map[string]bool
	// KeyOverrides maps Go field names to column names
	KeyOverrides map[string]string
	// TimeLayout formats time.Time fields; defaults to RFC3339
	TimeLayout string
}

// StructToRow converts a struct into a tablestore.Row keyed by snake_case
// field names. Embedded structs are flattened, nil pointers become null and
// time.Time values are stored as UTC text.
func StructToRow[T any](value T, opts StructToRowOptions) (tablestore.Row, error) {
	row := tablestore.Row{}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return row, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", v.Kind())
	}

	if err := appendStructFields(v, row, opts); err != nil {
		return nil, err
	}
	return row, nil
}

func appendStructFields(v reflect.Value, row tablestore.Row, opts StructToRowOptions) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if opts.OmitFields[field.Name] {
			continue
		}

		value := v.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			if err := appendStructFields(value, row, opts); err != nil {
				return err
			}
			continue
		}
		if opts.OmitZero[field.Name] && value.IsZero() {
			continue
		}

		key := toSnakeCase(field.Name)
		if override, ok := opts.KeyOverrides[field.Name]; ok {
			key = override
		}

		converted, err := tablestore.ValueOf(normalizeValue(value, opts))
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		row[key] = converted
	}
	return nil
}

func normalizeValue(value reflect.Value, opts StructToRowOptions) any {
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	if ts, ok := value.Interface().(time.Time); ok {
		layout := opts.TimeLayout
		if layout == "" {
			layout = time.RFC3339
		}
		return ts.UTC().Format(layout)
	}

	if value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.String {
		items := make([]string, value.Len())
		for i := 0; i < value.Len(); i++ {
			items[i] = value.Index(i).String()
		}
		return strings.Join(items, ",")
	}

	return value.Interface()
}

func toSnakeCase(input string) string {
	if input == "" {
		return ""
	}

	runes := []rune(input)
	var builder strings.Builder
	builder.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				var next rune
				var nextNext rune
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				if i+2 < len(runes) {
					nextNext = runes[i+2]
				}
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					builder.WriteRune('_')
				} else if unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next) {
					if nextNext == 0 || !unicode.IsUpper(nextNext) {
						builder.WriteRune('_')
					}
				}
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}

		builder.WriteRune(unicode.ToLower(r))
	}

	return builder.String()
}
