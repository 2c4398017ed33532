package resp

const (
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
	CodeQueued        = "queued"
)
