package schemas

// CustomError is the error body returned to clients.
// CurrentStatus is only set for state conflicts so the client can refresh its view.
// Field names the offending input of a rejected request body.
type CustomError struct {
	Message       string `json:"message"`
	Code          string `json:"code"`
	CurrentStatus string `json:"currentStatus,omitempty"`
	Field         string `json:"field,omitempty"`
}

// WithStatus returns a copy of the error carrying the donation's current status.
func (e *CustomError) WithStatus(status DonationStatus) *CustomError {
	c := *e
	c.CurrentStatus = string(status)
	return &c
}

// WithField returns a copy of the error naming the invalid field.
func (e *CustomError) WithField(field string) *CustomError {
	c := *e
	c.Field = field
	return &c
}

var (
	BadRequest = &CustomError{
		Message: "The request body is invalid. Please check the request body and try again.",
		Code:    "ERR-001",
	}
	EmailTaken = &CustomError{
		Message: "The email is already registered. Please login or use another email.",
		Code:    "ERR-002",
	}
	InvalidCredentials = &CustomError{
		Message: "The credentials are invalid. Please check the email and password and try again.",
		Code:    "ERR-003",
	}
	DonationNotFound = &CustomError{
		Message: "The donation was not found. Please check the donation ID and try again.",
		Code:    "ERR-004",
	}
	DonationStateConflict = &CustomError{
		Message: "The donation is not in a state that allows this action. Please refresh and try again.",
		Code:    "ERR-005",
	}
	OtpMismatch = &CustomError{
		Message: "The pickup code does not match. Please ask the donor for the code and try again.",
		Code:    "ERR-006",
	}
	Forbidden = &CustomError{
		Message: "You are not allowed to perform this action.",
		Code:    "ERR-007",
	}
	DatabaseError = &CustomError{
		Message: "A database error occurred. Please try again later.",
		Code:    "ERR-008",
	}
	InternalServerError = &CustomError{
		Message: "An internal server error occurred. Please try again later.",
		Code:    "ERR-009",
	}
	Unauthorized = &CustomError{
		Message: "The request is unauthorized. Please login to your account.",
		Code:    "ERR-014",
	}
	InvalidToken = &CustomError{
		Message: "The provided token is invalid or expired. Please login again.",
		Code:    "ERR-015",
	}
	TooManyAttempts = &CustomError{
		Message: "Too many pickup code attempts. Please wait a minute and try again.",
		Code:    "ERR-016",
	}
	EmailUnreachable = &CustomError{
		Message: "The email address cannot receive mail. Please use another email.",
		Code:    "ERR-017",
	}
	ServiceUnavailable = &CustomError{
		Message: "The service is currently unavailable. Please try again later.",
		Code:    "ERR-018",
	}
)
