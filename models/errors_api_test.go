package models_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/defensoria/siri-backend/models"
)

func TestAPIErrorWireShape(t *testing.T) {
	b, err := json.Marshal(models.ErrRestrictedDate)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]interface{}
	if err := json.Unmarshal(b, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if wire["code"] != float64(2) {
		t.Fatalf("code = %v, want 2", wire["code"])
	}
	if wire["detail"] != "The system is not open today" {
		t.Fatalf("detail = %q", wire["detail"])
	}
	if _, ok := wire["Status"]; ok {
		t.Fatal("http status must not leak into the body")
	}
}

func TestAPIErrorStatuses(t *testing.T) {
	cases := []struct {
		err    *models.APIError
		status int
	}{
		{models.ErrOrderAlreadyAddedToStock, http.StatusBadRequest},
		{models.ErrRestrictedDate, http.StatusUnavailableForLegalReasons},
		{models.ErrMaterialsOrderAlreadyExists, http.StatusConflict},
		{models.ErrQuantityTooBig, http.StatusBadRequest},
		{models.ErrInvalidQueryParameters, http.StatusBadRequest},
	}
	for _, c := range cases {
		if c.err.Status != c.status {
			t.Errorf("code %d: status = %d, want %d", c.err.Code, c.err.Status, c.status)
		}
	}
}

func TestAPIErrorCodesAreUnique(t *testing.T) {
	all := []*models.APIError{
		models.ErrOrderAlreadyAddedToStock,
		models.ErrRestrictedDate,
		models.ErrMaterialsOrderAlreadyExists,
		models.ErrQuantityTooBig,
		models.ErrSupplierCannotBeDestroyed,
		models.ErrSupplierOrderItemAlreadyExists,
		models.ErrProtocolItemAlreadyExists,
		models.ErrProtocolItemNotFound,
		models.ErrInvalidQueryParameters,
	}
	seen := map[int]bool{}
	for _, e := range all {
		if seen[e.Code] {
			t.Errorf("duplicate code %d", e.Code)
		}
		seen[e.Code] = true
	}
}

func TestAPIErrorUnwrapsWithErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", models.ErrRestrictedDate)
	var apiErr *models.APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As failed to find APIError in wrapped chain")
	}
	if apiErr.Code != 2 {
		t.Fatalf("code = %d, want 2", apiErr.Code)
	}
}
