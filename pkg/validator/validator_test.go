package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type broadcastPayload struct {
	Title   string `json:"title" validate:"required,notblank,max=255"`
	Message string `json:"message" validate:"required,notblank"`
	Link    string `json:"link" validate:"omitempty,max=512,deeplink"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := broadcastPayload{
		Title:   "New Event: Jazz Night",
		Message: "Starts 8pm",
		Link:    "/events/42",
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	payload := broadcastPayload{
		Title:   "   ",
		Message: "",
	}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	vErrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(vErrs) != 2 {
		t.Fatalf("expected 2 validation errors, got %d", len(vErrs))
	}

	fields := map[string]string{}
	for _, v := range vErrs {
		fields[v.Field] = v.Tag
	}
	if fields["title"] != "notblank" {
		t.Fatalf("expected title to fail notblank, got %q", fields["title"])
	}
	if fields["message"] != "required" {
		t.Fatalf("expected message to fail required, got %q", fields["message"])
	}
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("eventpath", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "/events/1"
	})
	if err != nil {
		t.Fatalf("register validation: %v", err)
	}

	type custom struct {
		Value string `validate:"eventpath"`
	}

	if err := ValidateStruct(custom{Value: "/events/1"}); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
	if err := ValidateStruct(custom{Value: "/welcome"}); err == nil {
		t.Fatal("expected validation to fail for non-matching value")
	}
}

func TestDeepLinkRule(t *testing.T) {
	cases := map[string]bool{
		"/events/42":                  true,
		"/welcome":                    true,
		"https://example.com/tickets": true,
		"http://example.com":          true,
		"//evil.example.com/x":        false,
		"javascript:alert(1)":         false,
		"events/42":                   false,
		"ftp://example.com/file":      false,
	}

	for link, valid := range cases {
		err := ValidateStruct(broadcastPayload{Title: "t", Message: "m", Link: link})
		if valid && err != nil {
			t.Fatalf("expected %q to be accepted, got %v", link, err)
		}
		if !valid && err == nil {
			t.Fatalf("expected %q to be rejected", link)
		}
	}
}
