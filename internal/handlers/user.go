package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
)

const userSearchLimit = 5

// SearchUsers finds registered users by email fragment so an owner can pick
// who to invite. The caller is excluded from the results.
func SearchUsers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	emailQuery := ctx.Query("email")

	if emailQuery == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email query parameter is required"})
		return
	}

	var users []models.User

	err = db.DB.
		Where("email LIKE ? AND id != ?", "%"+emailQuery+"%", userID).
		Limit(userSearchLimit).
		Find(&users).Error

	if err != nil {
		logging.Logger.Errorf("Failed to search users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
