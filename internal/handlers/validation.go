package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/eventboard/pkg/errors"
	"github.com/charlesng35/eventboard/pkg/response"
	appValidator "github.com/charlesng35/eventboard/pkg/validator"
)

const invalidPayload = "invalid request payload"

// ruleMessages renders a failed rule for one field; %[1]s is the field and %[2]s the rule parameter.
var ruleMessages = map[string]string{
	"required": "%[1]s is required",
	"notblank": "%[1]s must not be blank",
	"deeplink": "%[1]s must be a site path like /events/42 or an http(s) URL",
	"min":      "%[1]s must be at least %[2]s characters",
	"max":      "%[1]s must be at most %[2]s characters",
}

// bindAndValidate decodes the JSON body into dest and applies its validate tags. On failure the
// 400 response has already been written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}
	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(describeValidation(err)))
		return false
	}
	return true
}

func describeValidation(err error) string {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return invalidPayload
	}

	parts := make([]string, len(failures))
	for i, failure := range failures {
		parts[i] = describeFailure(failure)
	}
	return strings.Join(parts, "; ")
}

func describeFailure(failure appValidator.ValidationError) string {
	field := strings.ToLower(strings.ReplaceAll(failure.Field, "_", " "))
	if field == "" {
		field = "field"
	}
	if format, ok := ruleMessages[failure.Tag]; ok {
		return fmt.Sprintf(format, field, failure.Param)
	}
	if failure.Param == "" {
		return fmt.Sprintf("%s failed validation: %s", field, failure.Tag)
	}
	return fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param)
}
