package configschema

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// applyDefaults sets every field carrying a `default` tag.
func applyDefaults(target any) error {
	return bindTags(target, "default", func(tag string) (string, bool) {
		return tag, tag != ""
	})
}

// applyEnv overrides fields whose `env` variable is present in env.
func applyEnv(target any, env map[string]string) error {
	return bindTags(target, "env", func(tag string) (string, bool) {
		value, ok := env[tag]
		return value, ok
	})
}

// bindTags walks target's fields and sets those for which lookup, given the
// field's tagName value, reports a value.
func bindTags(target any, tagName string, lookup func(tag string) (string, bool)) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}
	return bindStructFields(targetValue.Elem(), tagName, lookup)
}

func bindStructFields(structValue reflect.Value, tagName string, lookup func(string) (string, bool)) error {
	structType := structValue.Type()

	for i := 0; i < structValue.NumField(); i++ {
		field := structValue.Field(i)
		fieldType := structType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := bindStructFields(field, tagName, lookup); err != nil {
				return err
			}
			continue
		}

		tag := fieldType.Tag.Get(tagName)
		if tag == "" {
			continue
		}

		value, ok := lookup(tag)
		if !ok {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			if tagName == "env" {
				return fmt.Errorf("invalid value %q for %s: %w", value, tag, err)
			}
			return fmt.Errorf("invalid %s tag on %s: %w", tagName, fieldType.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a field value from a string. An empty string resets
// strings and leaves other kinds unchanged.
func setFieldValue(field reflect.Value, value string) error {
	if value == "" {
		if field.Kind() == reflect.String {
			field.SetString("")
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intValue, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intValue)
		}
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
