package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/authz"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProjectResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uint      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		CreatedAt: project.CreatedAt,
	}
}

// CreateProject inserts the project and the owner's membership in one
// transaction: a project without its owner membership must never be
// observable.
func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := models.Project{
		Name:    body.Name,
		OwnerID: userID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.Membership{
			UserID:    userID,
			ProjectID: project.ID,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		logging.Logger.Errorf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

// ListProjects returns every project the caller is a member of, owned or
// not, newest first.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []models.Project

	err = db.DB.
		Joins("JOIN memberships ON memberships.project_id = projects.id").
		Where("memberships.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error

	if err != nil {
		logging.Logger.Errorf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
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

	// Membership first: a non-member learns nothing, not even whether
	// the project exists.
	if err := authz.RequireMember(db.DB, userID, projectID); err != nil {
		if errors.Is(err, authz.ErrNotMember) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logging.Logger.Errorf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

// DeleteProject is owner-only and cascades memberships and tasks in the
// same transaction. Deleting a project that is already gone is a success so
// client retries stay trivial.
func DeleteProject(ctx *gin.Context) {
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

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNoContent)
			return
		}
		logging.Logger.Errorf("Failed to fetch project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	if project.OwnerID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can delete this project"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		logging.Logger.Errorf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
