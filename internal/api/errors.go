package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ModelBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const genericServerError = "Internal server error"

// respondError 按错误类型返回状态码；存储错误和未知错误只写日志，不把细节返回给客户端
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		se *service.StorageError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &se):
		logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericServerError})
	default:
		logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error(op + " failed (unhandled)")
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericServerError})
	}
}

// bindError 请求体解析/校验失败
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// parseID 解析路径中的数字 id
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
