package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 配置错误：INVALID_INPUT（未知模板 token、不支持的摘要算法、输入根目录不存在）
//   - 查找错误：NOT_FOUND（未发现的 interrogator、不存在的预设）
//   - 图片错误：UNSUPPORTED_IMAGE（无法识别/损坏的图片，批处理按 skip 处理）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "interrogator", "format", "batch"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInvalidInput     = "INVALID_INPUT"     // 配置/输入无效
	ErrorCodeUnsupportedImage = "UNSUPPORTED_IMAGE" // 无法识别或损坏的图片
	ErrorCodeInternalError    = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleInterrogator = "interrogator" // 分类模型模块
	ModulePostprocess  = "postprocess"  // 标签后处理模块
	ModuleFormat       = "format"       // 文件名模板模块
	ModuleCodec        = "codec"        // 图片编解码模块
	ModuleBatch        = "batch"        // 批处理模块
	ModuleStore        = "store"        // 存储模块
	ModulePreset       = "preset"       // 预设模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT（配置错误，需在任何文件 I/O 之前暴露）
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsUnsupportedImage 检查错误是否为 UNSUPPORTED_IMAGE（批处理按文件级跳过，不中断）
func IsUnsupportedImage(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnsupportedImage
	}
	return false
}
