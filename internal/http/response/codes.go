package response

// 业务状态码，沿用 HTTP 语义
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeUnprocessable   = 422 // 优惠码等业务校验未通过
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
