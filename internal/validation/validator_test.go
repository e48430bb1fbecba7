// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package validation

import (
	"strings"
	"testing"
)

type clickRequest struct {
	ViewerID string `json:"viewerId" validate:"required,entityid"`
	ItemID   string `json:"itemId" validate:"required,entityid"`
	Limit    int    `json:"limit" validate:"min=0,max=100"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        clickRequest
		wantFields []string
	}{
		{"valid", clickRequest{ViewerID: "v-1", ItemID: "6f1c2a9e-0d7b-4d5e-9a51-2b7e1c3d4f50"}, nil},
		{"missing viewer", clickRequest{ItemID: "i1"}, []string{"viewerId"}},
		{"bad item id", clickRequest{ViewerID: "v1", ItemID: "drop table;"}, []string{"itemId"}},
		{"limit too large", clickRequest{ViewerID: "v1", ItemID: "i1", Limit: 101}, []string{"limit"}},
		{"multiple", clickRequest{Limit: -1}, []string{"viewerId", "itemId", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.req)
			if tt.wantFields == nil {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			apiErr := verr.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("Code = %q", apiErr.Code)
			}
			if strings.Join(apiErr.Fields, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("Fields = %v, want %v", apiErr.Fields, tt.wantFields)
			}
		})
	}
}

func TestTranslateError_Messages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&clickRequest{ViewerID: "v1", ItemID: "i1", Limit: 500})
	if verr == nil {
		t.Fatal("expected error")
	}
	if got := verr.Error(); got != "limit must be at most 100" {
		t.Errorf("Error() = %q", got)
	}
	errs := verr.Errors()
	if len(errs) != 1 || errs[0].Tag() != "max" || errs[0].Param() != "100" {
		t.Errorf("Errors() = %+v", errs)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
