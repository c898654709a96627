package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/relictum/pkg/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// SetValue sets a configuration value by dotted key, e.g.
// "settings.log_level" or "integrity.enabled". Lists take comma-separated
// values. The result is not validated; call Validate before saving.
func (c *Config) SetValue(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}

	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(value)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		field.SetBool(b)
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return nil
}

// GetValue returns the value of a dotted key as a string.
func (c *Config) GetValue(key string) (string, error) {
	field, err := c.lookup(key)
	if err != nil {
		return "", err
	}
	return formatValue(field), nil
}

// Keys lists every dotted key in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.ToMap()))
	for k := range c.ToMap() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap flattens the configuration into dotted keys.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	root := reflect.ValueOf(c).Elem()
	for i := 0; i < root.NumField(); i++ {
		section := yamlKey(root.Type().Field(i))
		if section == "" {
			continue
		}
		sv := root.Field(i)
		for j := 0; j < sv.NumField(); j++ {
			name := yamlKey(sv.Type().Field(j))
			if name == "" {
				continue
			}
			result[section+"."+name] = formatValue(sv.Field(j))
		}
	}
	return result
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	root := reflect.ValueOf(c).Elem()
	for i := 0; i < root.NumField(); i++ {
		if yamlKey(root.Type().Field(i)) != section {
			continue
		}
		sv := root.Field(i)
		for j := 0; j < sv.NumField(); j++ {
			if yamlKey(sv.Type().Field(j)) == name {
				return sv.Field(j), nil
			}
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
}

// yamlKey handles yaml tags with options (e.g., "cache_dir,omitempty").
func yamlKey(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func formatValue(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.String:
		return v.String()
	case reflect.Slice:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, fmt.Sprint(v.Index(i).Interface()))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
