package validator

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// ValidationError is one failed rule on one field. Field uses the json name.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

func (e ValidationError) String() string {
	if e.Param == "" {
		return e.Field + " failed on " + e.Tag
	}
	return e.Field + " failed on " + e.Tag + "=" + e.Param
}

// ValidationErrors is returned by ValidateStruct when any rule fails.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, failure := range v {
		parts[i] = failure.String()
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct applies the validate tags of s. Rule failures come back as ValidationErrors;
// anything else, such as a non-struct argument, is returned unchanged.
func ValidateStruct(s interface{}) error {
	err := instance().Struct(s)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make(ValidationErrors, len(fieldErrs))
	for i, fe := range fieldErrs {
		failures[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return failures
}

// RegisterValidation adds a custom rule to the shared validator.
func RegisterValidation(tag string, fn validator.Func) error {
	return instance().RegisterValidation(tag, fn)
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		// whitespace-only titles and messages count as missing
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		_ = validate.RegisterValidation("deeplink", isDeepLink)
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// isDeepLink accepts site-relative paths such as /events/42 and absolute http(s) URLs.
func isDeepLink(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "/") {
		// "//host" is protocol-relative and would leave the site
		return !strings.HasPrefix(value, "//")
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
