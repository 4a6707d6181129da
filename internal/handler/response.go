package handler

// ErrorResponse is the envelope every storefront endpoint returns on
// failure. The front end branches on Error.Code (out_of_stock,
// already_paid, still_payable, ...) to phrase the chat reply; Message
// is for operators reading logs, not for end users.
type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}
