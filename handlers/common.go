package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/auth"
	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// requireUser returns the authenticated caller or writes a 401
func requireUser(c *gin.Context) (models.CurrentUser, bool) {
	user, ok := auth.CurrentUser(c)
	if !ok || user.ID == "" {
		utils.HandleError(c, utils.NewUnauthenticatedError("Authorization required"))
		return models.CurrentUser{}, false
	}
	return user, true
}

// HealthCheck reports that the process is serving
func HealthCheck(c *gin.Context) {
	utils.HandleSuccess(c, gin.H{"status": "ok"})
}
