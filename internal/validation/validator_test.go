// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package validation

import (
	"strings"
	"testing"
)

type locationReport struct {
	Lat    *float64 `json:"lat" validate:"required_without=Denied,omitempty,latitude"`
	Lng    *float64 `json:"lng" validate:"required_without=Denied,omitempty,longitude"`
	Denied bool     `json:"denied"`
}

type ticket struct {
	Link string `json:"ticketLink" validate:"omitempty,http_url"`
	Name string `json:"name" validate:"required,max=5"`
}

func f(v float64) *float64 { return &v }

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}

func TestValidateStructLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       locationReport
		wantField string
	}{
		{"coordinate", locationReport{Lat: f(39.6), Lng: f(-9.07)}, ""},
		{"denied", locationReport{Denied: true}, ""},
		{"missing both", locationReport{}, "lat"},
		{"bad latitude", locationReport{Lat: f(91), Lng: f(0)}, "lat"},
		{"bad longitude", locationReport{Lat: f(0), Lng: f(-181)}, "lng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Errorf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if !verr.HasField(tt.wantField) {
				t.Errorf("errors %v do not include field %q", verr, tt.wantField)
			}
		})
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&ticket{Link: "javascript:alert(1)", Name: "ok"})
	if verr == nil {
		t.Fatal("expected error for non-http link")
	}
	errs := verr.Errors()
	if len(errs) != 1 || errs[0].Field() != "ticketLink" || errs[0].Tag() != "http_url" {
		t.Fatalf("errors = %+v", errs)
	}
	if !strings.Contains(errs[0].Error(), "http or https") {
		t.Errorf("message = %q", errs[0].Error())
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&ticket{})
	api := verr.ToAPIError()
	if api.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", api.Code)
	}
	if api.Message != "name is required" {
		t.Errorf("Message = %q", api.Message)
	}
	if api.Details["field"] != "name" {
		t.Errorf("Details = %v", api.Details)
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&ticket{Link: "ftp://x", Name: "toolong"})
	api := verr.ToAPIError()
	fields, ok := api.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details = %v", api.Details)
	}
	if !strings.Contains(api.Message, "name: name must be at most 5 characters") {
		t.Errorf("Message = %q", api.Message)
	}
}

func TestValidateVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		ok    bool
	}{
		{"https://tickets.example/e/42", true},
		{"http://tickets.example", true},
		{"javascript:alert(1)", false},
		{"ftp://tickets.example", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		err := ValidateVar(tt.value, "http_url")
		if (err == nil) != tt.ok {
			t.Errorf("ValidateVar(%q) = %v, want ok=%v", tt.value, err, tt.ok)
		}
	}
}

func TestRequestValidationErrorEmpty(t *testing.T) {
	t.Parallel()

	var verr RequestValidationError
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if verr.ToAPIError().Message != "Validation failed" {
		t.Error("empty ToAPIError message mismatch")
	}
}
