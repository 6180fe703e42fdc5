package task

// Task is one unit of work dispatched to a feedlet worker.
type Task struct {
	ID   string            `json:"id"`
	Type string            `json:"type"`
	Data map[string]string `json:"payload"`
}

// Result is the worker's answer. Result holds a JSON document whose shape
// depends on the task type.
type Result struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Result  []byte `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewResultWithError builds a failed result.
func NewResultWithError(id string, err string) *Result {
	return &Result{
		ID:      id,
		Success: false,
		Error:   err,
	}
}

// NewResultWithData builds a successful result carrying a JSON payload.
func NewResultWithData(id string, data []byte) *Result {
	return &Result{
		ID:      id,
		Success: true,
		Result:  data,
	}
}
