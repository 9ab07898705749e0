package handler

// envelope is embedded in every JSON body the API returns.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok(message string) envelope {
	return envelope{Success: true, Message: message}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
