package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/authz"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"gorm.io/gorm"
)

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required"`
}

type MembershipResponse struct {
	ID        uint `json:"id"`
	UserID    uint `json:"user_id"`
	ProjectID uint `json:"project_id"`
}

// InviteMember adds a registered user to a project. Owner only. The unique
// (user_id, project_id) index is the real duplicate guard; the lookup
// before the insert just gives the common case a friendlier path.
func InviteMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body InviteMemberRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User email is required"})
		return
	}

	if _, err := authz.RequireOwner(db.DB, userID, projectID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case errors.Is(err, authz.ErrNotOwner):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can invite members"})
		default:
			logging.Logger.Errorf("Failed to check ownership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite member"})
		}
		return
	}

	var invitee models.User

	if err := db.DB.Where("email = ?", body.Email).First(&invitee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User with email " + body.Email + " not found"})
		} else {
			logging.Logger.Errorf("Failed to fetch invitee: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite member"})
		}
		return
	}

	member, err := authz.IsMember(db.DB, invitee.ID, projectID)

	if err != nil {
		logging.Logger.Errorf("Failed to check existing membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite member"})
		return
	}

	if member {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this project"})
		return
	}

	membership := models.Membership{
		UserID:    invitee.ID,
		ProjectID: projectID,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this project"})
			return
		}
		logging.Logger.Errorf("Failed to create membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite member"})
		return
	}

	BroadcastRefresh(projectID)

	ctx.JSON(http.StatusCreated, MembershipResponse{
		ID:        membership.ID,
		UserID:    membership.UserID,
		ProjectID: membership.ProjectID,
	})
}

// ListMembers returns the members of a project in insertion order. Any
// member may look.
func ListMembers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := authz.RequireMember(db.DB, userID, projectID); err != nil {
		if errors.Is(err, authz.ErrNotMember) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	var memberships []models.Membership

	err = db.DB.
		Preload("User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&memberships).Error

	if err != nil {
		logging.Logger.Errorf("Failed to list members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	response := make([]types.UserResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, types.UserResponse{
			ID:    membership.User.ID,
			Email: membership.User.Email,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
