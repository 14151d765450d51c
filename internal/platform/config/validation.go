package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys so messages point at the
// line to fix in the YAML or the FORMDESK_ variable to set.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})
	v.RegisterStructValidation(validateRouteTable, RouterConfig{})

	return v
}

// validateRouteTable rejects a route table that would be ambiguous: two
// routes on the same path, or two routes sharing a name.
func validateRouteTable(sl validator.StructLevel) {
	rc, ok := sl.Current().Interface().(RouterConfig)
	if !ok {
		return
	}

	paths := make(map[string]int, len(rc.Routes))
	names := make(map[string]int, len(rc.Routes))

	for i, r := range rc.Routes {
		if j, seen := paths[r.Path]; seen {
			sl.ReportError(r.Path, fmt.Sprintf("routes[%d].path", i), "Path", "unique_path", strconv.Itoa(j))
		} else {
			paths[r.Path] = i
		}

		if r.Name == "" {
			continue
		}

		if j, seen := names[r.Name]; seen {
			sl.ReportError(r.Name, fmt.Sprintf("routes[%d].name", i), "Name", "unique_name", strconv.Itoa(j))
		} else {
			names[r.Name] = i
		}
	}
}

// Validate checks the configuration. Startup stops on the first invalid
// load, with every failing key listed.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, e := range fieldErrs {
		lines[i] = describe(e)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(e validator.FieldError) string {
	key := configKey(e.Namespace())

	switch e.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, e.Param())
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", key, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", key, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, e.Param())
	case "url":
		return key + " must be a valid URL"
	case "startswith":
		if e.Param() == "#" {
			return fmt.Sprintf("%s must start with %q and name an element id, e.g. #app", key, e.Param())
		}
		return fmt.Sprintf("%s must start with %q", key, e.Param())
	case "unique_path":
		return fmt.Sprintf("%s %q duplicates router.routes[%s].path", key, e.Value(), e.Param())
	case "unique_name":
		return fmt.Sprintf("%s %q duplicates router.routes[%s].name", key, e.Value(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", key, e.Tag())
	}
}

// configKey turns "Config.app.mount_point" into "app.mount_point".
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}
