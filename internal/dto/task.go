package dto

// TriggerTaskResponse acknowledges a manual job trigger
type TriggerTaskResponse struct {
	TaskID  string `json:"task_id"`
	JobName string `json:"job_name"`
	Message string `json:"message"`
}

// TaskStatusResponse reports the state of a dispatched job
type TaskStatusResponse struct {
	TaskID  string `json:"task_id"`
	JobName string `json:"job_name"`
	State   string `json:"state"` // pending, success, failure
	Info    string `json:"info,omitempty"`
}
