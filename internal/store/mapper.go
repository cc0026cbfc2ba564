package store

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// The text mapper serialises flat record structs reflectively. Scalar fields
// become one "name:value" line each; float slices become a "name>count" line
// followed by one value per line. Field names come from the `record` struct
// tag; untagged fields are skipped.

var timeType = reflect.TypeOf(time.Time{})

// marshalRecord maps a record struct to its text form.
func marshalRecord(v any) (string, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", fmt.Errorf("cannot map %s, expected struct", rv.Kind())
	}

	var b strings.Builder
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Tag.Get("record")
		if name == "" || name == "-" {
			continue
		}
		field := rv.Field(i)

		switch {
		case field.Type() == timeType:
			ts := field.Interface().(time.Time)
			fmt.Fprintf(&b, "%s:%s\n", name, ts.UTC().Format(time.RFC3339Nano))
		case field.Kind() == reflect.String:
			s := field.String()
			// One line per field; an embedded line break would parse as
			// a different record line on recovery.
			if strings.ContainsAny(s, "\n\r") {
				return "", fmt.Errorf("field %s contains a line break and cannot be mapped", name)
			}
			fmt.Fprintf(&b, "%s:%s\n", name, s)
		case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
			fmt.Fprintf(&b, "%s:%d\n", name, field.Int())
		case field.Kind() == reflect.Float64:
			fmt.Fprintf(&b, "%s:%s\n", name, strconv.FormatFloat(field.Float(), 'g', -1, 64))
		case field.Kind() == reflect.Bool:
			fmt.Fprintf(&b, "%s:%t\n", name, field.Bool())
		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Float64:
			fmt.Fprintf(&b, "%s>%d\n", name, field.Len())
			for j := 0; j < field.Len(); j++ {
				fmt.Fprintf(&b, "%s\n", strconv.FormatFloat(field.Index(j).Float(), 'g', -1, 64))
			}
		default:
			return "", fmt.Errorf("field %s has unmappable type %s", name, field.Type())
		}
	}
	return b.String(), nil
}

// unmarshalRecord parses the text form produced by marshalRecord back into
// the record struct pointed to by v.
func unmarshalRecord(data string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal target must be a struct pointer")
	}
	rv = rv.Elem()

	fields := make(map[string]reflect.Value)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if name := rt.Field(i).Tag.Get("record"); name != "" && name != "-" {
			fields[name] = rv.Field(i)
		}
	}

	lines := strings.Split(data, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if line == "" {
			continue
		}

		if name, countStr, ok := strings.Cut(line, ">"); ok && !strings.Contains(name, ":") {
			field, known := fields[name]
			if !known {
				return fmt.Errorf("unknown record field %q", name)
			}
			count, err := strconv.Atoi(countStr)
			if err != nil || count < 0 {
				return fmt.Errorf("invalid count for field %q: %q", name, countStr)
			}
			if i+count > len(lines)-1 {
				return fmt.Errorf("field %q declares %d values but the record is truncated", name, count)
			}
			slice := reflect.MakeSlice(field.Type(), 0, count)
			for j := 0; j < count; j++ {
				i++
				val, err := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64)
				if err != nil {
					return fmt.Errorf("invalid value %d of field %q: %w", j, name, err)
				}
				slice = reflect.Append(slice, reflect.ValueOf(val))
			}
			field.Set(slice)
			continue
		}

		name, raw, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("malformed record line %q", line)
		}
		field, known := fields[name]
		if !known {
			return fmt.Errorf("unknown record field %q", name)
		}
		if err := setScalar(field, name, raw); err != nil {
			return err
		}
	}
	return nil
}

func setScalar(field reflect.Value, name, raw string) error {
	switch {
	case field.Type() == timeType:
		if raw == "" {
			return nil
		}
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("invalid timestamp for field %q: %w", name, err)
		}
		field.Set(reflect.ValueOf(ts))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer for field %q: %w", name, err)
		}
		field.SetInt(n)
	case field.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float for field %q: %w", name, err)
		}
		field.SetFloat(f)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool for field %q: %w", name, err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("field %q has unmappable type %s", name, field.Type())
	}
	return nil
}
