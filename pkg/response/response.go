package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

// JSON sends a success payload as-is. Payload shapes follow the public API
// contract (e.g. {"courses": [...]}), not a generic envelope.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error converts any error into the public error shape. Wrapped causes are
// only exposed outside release mode; clients otherwise see the message alone.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := gin.H{"error": appErr.Message}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
		body["detail"] = appErr.Err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, body)
}
