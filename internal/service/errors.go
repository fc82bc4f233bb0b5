package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrDiaryNotFound    = errors.New("日记不存在")
	ErrCacheUnavailable = errors.New("缓存服务不可用")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrDiaryNotFound:    NotFound,
	ErrCacheUnavailable: ServiceUnavailable,
	UnExpectedError:     InternalServerError,
}
