package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/applesignin/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "com.example.service", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().Required("client_id", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorRequiredCustomMessage(t *testing.T) {
	err := New().Required("client_id", " ", "Service ID cannot be empty").Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Message != "Service ID cannot be empty" {
		t.Errorf("expected custom message, got %q", err.Message)
	}
	if err.Details["field"] != "client_id" {
		t.Errorf("expected field detail, got %v", err.Details["field"])
	}
}

func TestValidatorURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"absolute", "https://ex.com/cb", false},
		{"custom scheme", "myapp://callback", false},
		{"relative", "/cb", true},
		{"empty skipped", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().URL("redirect_uri", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", v.HasErrors(), tc.wantErr, v.Errors())
			}
		})
	}
}

func TestValidatorOneOfAndCustom(t *testing.T) {
	v := New().
		OneOf("format", "xml", []string{"json", "console"}).
		Custom(false, "port", "port must be positive")
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %v", v.Errors())
	}

	err := v.Validate()
	if err.Code != errors.ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT, got %s", err.Code)
	}
	if !strings.Contains(err.Message, "format:") || !strings.Contains(err.Message, "port:") {
		t.Errorf("expected both fields in message, got %q", err.Message)
	}
}

func TestValidatorValidateNoErrors(t *testing.T) {
	if err := New().Required("x", "y").Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestRequiredHelper(t *testing.T) {
	if err := Required("redirect_uri", "https://ex.com/cb"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Required("redirect_uri", ""); err == nil {
		t.Error("expected error for blank value")
	}
}

type sample struct {
	ClientID    string `mapstructure:"client_id" validate:"required"`
	RedirectURI string `mapstructure:"redirect_uri" validate:"required,url"`
	Port        int    `validate:"min=0,max=65535"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantErr   bool
		wantField string
	}{
		{"valid", sample{ClientID: "svc", RedirectURI: "https://ex.com/cb"}, false, ""},
		{"missing client id", sample{RedirectURI: "https://ex.com/cb"}, true, "client_id"},
		{"bad url", sample{ClientID: "svc", RedirectURI: "not a url"}, true, "redirect_uri"},
		{"port out of range", sample{ClientID: "svc", RedirectURI: "https://ex.com/cb", Port: 70000}, true, "port"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil {
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidArgument {
				t.Errorf("expected INVALID_ARGUMENT, got %s", appErr.Code)
			}
			if !strings.Contains(appErr.Message, tc.wantField) {
				t.Errorf("expected message naming %q, got %q", tc.wantField, appErr.Message)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Port":        "port",
		"ClientID":    "client_i_d",
		"RedirectURI": "redirect_u_r_i",
		"name":        "name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
