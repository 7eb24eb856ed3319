package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/internal/seed"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

type courseSeeder interface {
	Seed(ctx context.Context, fixtures []models.Course) ([]string, error)
}

// SeedHandler exposes the operational catalog bootstrap. It is not part of
// the student-facing contract.
type SeedHandler struct {
	courses courseSeeder
}

// NewSeedHandler constructs SeedHandler.
func NewSeedHandler(courses courseSeeder) *SeedHandler {
	return &SeedHandler{courses: courses}
}

// Seed godoc
// @Summary Seed the course catalog with sample data
// @Tags Operations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /seed-courses [post]
func (h *SeedHandler) Seed(c *gin.Context) {
	summaries, err := h.courses.Seed(c.Request.Context(), seed.Courses())
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, gin.H{
			"success": false,
			"message": appErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully seeded %d courses!", len(summaries)),
		"courses": summaries,
	})
}
