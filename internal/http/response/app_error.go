package response

// AppError 接口错误：业务码 + 已本地化文案 + 原始错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// ServerSide 是否为服务端故障
func (e *AppError) ServerSide() bool { return e.Code >= CodeInternal }

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
