package models

import "net/http"

// APIError is a business-rule violation with a fixed HTTP status and a
// stable numeric code consumed by the frontend.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"detail"`
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrOrderAlreadyAddedToStock = &APIError{
		Status:  http.StatusBadRequest,
		Code:    1,
		Message: "This order has already been partially or completely added to the stock",
	}
	ErrRestrictedDate = &APIError{
		Status:  http.StatusUnavailableForLegalReasons,
		Code:    2,
		Message: "The system is not open today",
	}
	ErrMaterialsOrderAlreadyExists = &APIError{
		Status:  http.StatusConflict,
		Code:    3,
		Message: "The requested material order already exists",
	}
	ErrQuantityTooBig = &APIError{
		Status:  http.StatusBadRequest,
		Code:    4,
		Message: "The added quantity cannot exceed the requested quantity",
	}
	ErrSupplierCannotBeDestroyed = &APIError{
		Status:  http.StatusBadRequest,
		Code:    5,
		Message: "This supplier cannot be deleted",
	}
	ErrSupplierOrderItemAlreadyExists = &APIError{
		Status:  http.StatusBadRequest,
		Code:    6,
		Message: "The requested supplier order item already exists",
	}
	ErrProtocolItemAlreadyExists = &APIError{
		Status:  http.StatusBadRequest,
		Code:    7,
		Message: "The requested protocol item already exists",
	}
	ErrProtocolItemNotFound = &APIError{
		Status:  http.StatusBadRequest,
		Code:    8,
		Message: "No protocol item matches the supplier order's protocol and product",
	}
	ErrInvalidQueryParameters = &APIError{
		Status:  http.StatusBadRequest,
		Code:    9,
		Message: "Invalid query parameters",
	}
)
