package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeMissingField          = "MISSING_FIELD"
	ErrCodeMalformedSequence     = "MALFORMED_SEQUENCE"
	ErrCodeDiscountNotFound      = "DISCOUNT_NOT_FOUND"
	ErrCodeDiscountExpired       = "DISCOUNT_EXPIRED"
	ErrCodeDiscountExhausted     = "DISCOUNT_EXHAUSTED"
	ErrCodeDiscountInvalid       = "DISCOUNT_INVALID"
	ErrCodeDiscountExists        = "DISCOUNT_EXISTS"
	ErrCodeDiscountReferenced    = "DISCOUNT_REFERENCED"
	ErrCodeDuplicateDiscount     = "DUPLICATE_DISCOUNT"
	ErrCodeMultipleNonCumulative = "MULTIPLE_NON_CUMULATIVE_DISCOUNTS"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeStockExceeded         = "STOCK_EXCEEDED"
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMalformedSequence     = NewDomainError(ErrCodeMalformedSequence, "Previous order number cannot be parsed")
	ErrDiscountNotFound      = NewDomainError(ErrCodeDiscountNotFound, "Discount code does not exist")
	ErrDiscountExpired       = NewDomainError(ErrCodeDiscountExpired, "Discount code has expired")
	ErrDiscountExhausted     = NewDomainError(ErrCodeDiscountExhausted, "Discount code has no uses left")
	ErrDiscountInvalid       = NewDomainError(ErrCodeDiscountInvalid, "Discount code definition is invalid")
	ErrDiscountExists        = NewDomainError(ErrCodeDiscountExists, "Discount code already exists")
	ErrDiscountReferenced    = NewDomainError(ErrCodeDiscountReferenced, "Discount code is referenced by an order")
	ErrDuplicateDiscount     = NewDomainError(ErrCodeDuplicateDiscount, "Discount code was supplied more than once")
	ErrMultipleNonCumulative = NewDomainError(ErrCodeMultipleNonCumulative, "A non-cumulative discount must be applied alone")
	ErrProductNotFound       = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound         = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrStockExceeded         = NewDomainError(ErrCodeStockExceeded, "Requested quantity exceeds available stock")
	ErrEmptyCart             = NewDomainError(ErrCodeEmptyCart, "Order must contain at least one item")
	ErrForbidden             = NewDomainError(ErrCodeForbidden, "Caller is not allowed to perform this operation")
)
