package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	appValidator "github.com/charlesng35/eventboard/pkg/validator"
)

func TestDescribeValidation(t *testing.T) {
	err := appValidator.ValidationErrors{
		{Field: "title", Tag: "required"},
		{Field: "message", Tag: "max", Param: "2000"},
		{Field: "start_time", Tag: "ltfield", Param: "EndTime"},
		{Field: "link", Tag: "url"},
	}

	require.Equal(t,
		"title is required; message must be at most 2000 characters; start time failed validation: ltfield=EndTime; link failed validation: url",
		describeValidation(err))
}

func TestDescribeValidationFallsBack(t *testing.T) {
	require.Equal(t, invalidPayload, describeValidation(errors.New("boom")))
	require.Equal(t, invalidPayload, describeValidation(appValidator.ValidationErrors{}))
}
