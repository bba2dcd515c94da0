package services

import "net/http"

// ErrorKind classifies a ServiceError independently of its HTTP status.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindEligibility       ErrorKind = "eligibility"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindConflict          ErrorKind = "conflict"
	KindUpstream          ErrorKind = "upstream"
	KindInternal          ErrorKind = "internal"
)

// Coupon eligibility reasons.
const (
	ReasonCouponNotFound = "not_found"
	ReasonCouponExpired  = "expired"
	ReasonBelowMinimum   = "below_minimum"
	ReasonLimitReached   = "limit_reached"

	ReasonKitchenClosed = "kitchen_closed"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	// Reason refines Kind, e.g. which coupon rule failed.
	Reason  string
	Details map[string]interface{}
}

func (e *ServiceError) Error() string {
	return e.Message
}

func validationError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func notFoundError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func eligibilityError(reason, msg string) *ServiceError {
	status := http.StatusBadRequest
	if reason == ReasonCouponNotFound {
		status = http.StatusNotFound
	}
	return &ServiceError{StatusCode: status, Kind: KindEligibility, Reason: reason, Message: msg}
}

func invalidTransitionError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindInvalidTransition, Message: msg}
}

func unauthorizedError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindUnauthorized, Message: msg}
}

func conflictError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindConflict, Message: msg}
}

func upstreamError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadGateway, Kind: KindUpstream, Message: msg}
}

func internalError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: msg}
}
