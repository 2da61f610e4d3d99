package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldBatchID   = "batch_id"
	FieldGroupKey  = "group_key"
	FieldService   = "service"
	FieldClientID  = "client_id"
	FieldSessionID = "session_id"
	FieldWorkerID  = "worker_id"
)
