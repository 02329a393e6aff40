package controller

import (
	"net/http"

	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctl *HealthController) HealthCheck(c *gin.Context) {
	sqlDB, err := ctl.DB.DB()
	if err != nil {
		util.InternalServerError(c)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(c, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
		},
	})
}
