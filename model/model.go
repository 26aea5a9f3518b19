package model

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ExecutionRequest is the body accepted over HTTP and NATS.
type ExecutionRequest struct {
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Inputs   []string `json:"inputs"`
	Key      string   `json:"key"`
}

// ExecutionResponse carries one output per input, or a single compile
// diagnostic or validator message.
type ExecutionResponse struct {
	Status  string   `json:"status"`
	Outputs []string `json:"outputs"`
}

// ErrorResponse is returned for requests that never reached execution.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

func Success(outputs []string) ExecutionResponse {
	if outputs == nil {
		outputs = []string{}
	}
	return ExecutionResponse{Status: StatusSuccess, Outputs: outputs}
}

func Failure(message string, code int) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message, Code: code}
}
