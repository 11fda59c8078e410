package configschema

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"go.eggybyte.com/dddmaker/internal/modulepath"
)

// NewValidator returns a validator with the dddmaker rules registered and
// field names reported by their YAML keys.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("php_namespace", func(fl validator.FieldLevel) bool {
		_, err := modulepath.NormalizeRootNamespace(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("project_relative", func(fl validator.FieldLevel) bool {
		p := filepath.Clean(filepath.FromSlash(fl.Field().String()))
		return !filepath.IsAbs(p) && p != ".." && !strings.HasPrefix(p, ".."+string(filepath.Separator))
	})
	_ = v.RegisterValidation("file_extension", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), `/\ `)
	})

	return v
}

var suggestions = map[string]string{
	"php_namespace":    `Use backslash-separated identifiers, e.g. "App" or "Acme\Shop"`,
	"project_relative": "Use a path relative to the project directory",
	"file_extension":   `Use an extension such as ".php"`,
	"startswith":       `Start the extension with "."`,
	"oneof":            "Use one of: %s",
	"required":         "Set a value",
	"required_if":      "Set a value or disable the feature",
}

// validateConfig runs struct validation and the cross-field checks.
func validateConfig(config *Config, diags *Diagnostics) {
	if err := NewValidator().Struct(config); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			diags.AddError(fmt.Sprintf("Validation failed: %v", err), "", "")
		}
		for _, fe := range verrs {
			path := fe.Namespace()
			if _, rest, ok := strings.Cut(path, "."); ok {
				path = rest
			}

			suggestion := suggestions[fe.Tag()]
			if strings.Contains(suggestion, "%s") {
				suggestion = fmt.Sprintf(suggestion, fe.Param())
			}
			diags.AddError(fmt.Sprintf("Invalid value %q (%s)", fmt.Sprint(fe.Value()), fe.Tag()), path, suggestion)
		}
	}

	if config.Journal.Enabled && config.Journal.Driver != "sqlite" && config.Journal.DSN == Default().Journal.DSN {
		diags.AddWarning("Journal DSN looks like a sqlite path", "journal.dsn",
			fmt.Sprintf("Set a %s connection string", config.Journal.Driver))
	}

	if config.Features.SearchSpecification {
		diags.AddInfo("Search specifications are only generated with --with-spec", "features.search_specification", "")
	}
}
