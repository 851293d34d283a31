package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ValidationError 参数缺失或不合法（400），消息可直接返回给调用方
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 模型/用例/基准不存在（404）
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StorageError 存储层失败（500），事务已整体回滚；Err 只写日志不返回给调用方
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// lookupErr 把 gorm 的查询错误转成 NotFoundError / StorageError
func lookupErr(resource, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return storageErr(op, err)
}

// isDuplicate 唯一约束冲突；驱动未做错误转换时按错误文本判断
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
