package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// applyEnv overrides config fields from the environment. A field's env tag may
// list several names separated by commas; the first one that is set wins.
// Every malformed value is reported, not just the first.
func applyEnv(target interface{}) error {
	root := reflect.ValueOf(target)
	if root.Kind() != reflect.Ptr || root.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config target must be a pointer to a struct, got %T", target)
	}
	return applyEnvValue(root.Elem(), "")
}

func applyEnvValue(section reflect.Value, path string) error {
	var errs []error
	for _, sf := range reflect.VisibleFields(section.Type()) {
		field := section.FieldByIndex(sf.Index)
		name := sf.Name
		if path != "" {
			name = path + "." + sf.Name
		}

		if field.Kind() == reflect.Struct {
			errs = append(errs, applyEnvValue(field, name))
			continue
		}

		raw, key, ok := lookupEnv(sf.Tag.Get("env"))
		if !ok {
			continue
		}
		if err := assign(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s (from %s): %w", name, key, err))
		}
	}
	return errors.Join(errs...)
}

// lookupEnv returns the first variable named in tag that is present
func lookupEnv(tag string) (value, key string, ok bool) {
	if tag == "" {
		return "", "", false
	}
	for _, key := range strings.Split(tag, ",") {
		key = strings.TrimSpace(key)
		if value, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(value), key, true
		}
	}
	return "", "", false
}

func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return errors.New("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
