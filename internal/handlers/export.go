package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/authz"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"gorm.io/gorm"
)

type ExportMember struct {
	ID     uint               `json:"id"`
	UserID uint               `json:"user_id"`
	User   types.UserResponse `json:"user"`
}

type ExportSnapshot struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	OwnerID     uint           `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Tasks       []TaskResponse `json:"tasks"`
	Memberships []ExportMember `json:"memberships"`
	ExportedAt  time.Time      `json:"exported_at"`
}

// ExportProject materializes the full project graph in one shot and serves
// it as a downloadable JSON attachment. Membership is enough; the export is
// generated on demand and never persisted.
func ExportProject(ctx *gin.Context) {
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
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export project"})
		return
	}

	var project models.Project

	err = db.DB.
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Tasks.Assignee").
		Preload("Memberships", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Memberships.User").
		First(&project, projectID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logging.Logger.Errorf("Failed to load project for export: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export project"})
		}
		return
	}

	now := time.Now().UTC()

	snapshot := ExportSnapshot{
		ID:          project.ID,
		Name:        project.Name,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		Tasks:       make([]TaskResponse, 0, len(project.Tasks)),
		Memberships: make([]ExportMember, 0, len(project.Memberships)),
		ExportedAt:  now,
	}

	for _, task := range project.Tasks {
		snapshot.Tasks = append(snapshot.Tasks, taskResponse(task))
	}

	for _, membership := range project.Memberships {
		snapshot.Memberships = append(snapshot.Memberships, ExportMember{
			ID:     membership.ID,
			UserID: membership.UserID,
			User: types.UserResponse{
				ID:    membership.User.ID,
				Email: membership.User.Email,
			},
		})
	}

	fileName := fmt.Sprintf("project_%s_%s.json",
		strings.ReplaceAll(project.Name, " ", "_"),
		now.Format(time.RFC3339))

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.IndentedJSON(http.StatusOK, snapshot)
}
