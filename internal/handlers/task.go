package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
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

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required,oneof=todo in-progress done"`
	AssigneeID  *uint  `json:"assignee_id"`
}

// NullableUint distinguishes an absent field from an explicit null in a
// patch body: {"assignee_id": null} clears the assignment, while leaving
// the field out keeps it.
type NullableUint struct {
	Set   bool
	Value *uint
}

func (n *NullableUint) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	return json.Unmarshal(data, &n.Value)
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	AssigneeID  NullableUint `json:"assignee_id"`
}

type TaskResponse struct {
	ID          uint                `json:"id"`
	ProjectID   uint                `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	AssigneeID  *uint               `json:"assignee_id"`
	Assignee    *types.UserResponse `json:"assignee"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func taskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee != nil {
		response.Assignee = &types.UserResponse{
			ID:    task.Assignee.ID,
			Email: task.Assignee.Email,
		}
	}

	return response
}

func CreateTask(ctx *gin.Context) {
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
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and status are required"})
		return
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		AssigneeID:  body.AssigneeID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		logging.Logger.Errorf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if task.AssigneeID != nil {
		if err := db.DB.Preload("Assignee").First(&task, task.ID).Error; err != nil {
			logging.Logger.Errorf("Failed to reload task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
			return
		}
	}

	BroadcastRefresh(projectID)

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

// ListTasks returns a project's tasks oldest first, each with its
// assignee's identity resolved when one is set.
func ListTasks(ctx *gin.Context) {
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
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	var tasks []models.Task

	err = db.DB.
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error

	if err != nil {
		logging.Logger.Errorf("Failed to list tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateTask applies a sparse patch. The task's parent project decides who
// may touch it; tasks have no ACL of their own.
func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			logging.Logger.Errorf("Failed to fetch task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	if err := authz.RequireMember(db.DB, userID, task.ProjectID); err != nil {
		if errors.Is(err, authz.ErrNotMember) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil {
		updates["title"] = *body.Title
	}

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Status != nil {
		updates["status"] = *body.Status
	}

	if body.AssigneeID.Set {
		updates["assignee_id"] = body.AssigneeID.Value
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
			logging.Logger.Errorf("Failed to update task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	if err := db.DB.Preload("Assignee").First(&task, task.ID).Error; err != nil {
		logging.Logger.Errorf("Failed to reload task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	BroadcastRefresh(task.ProjectID)

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// DeleteTask removes a task. Deleting one that is already gone is a
// success, matching project deletion's softened semantics.
func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNoContent)
			return
		}
		logging.Logger.Errorf("Failed to fetch task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	if err := authz.RequireMember(db.DB, userID, task.ProjectID); err != nil {
		if errors.Is(err, authz.ErrNotMember) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		logging.Logger.Errorf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		logging.Logger.Errorf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastRefresh(task.ProjectID)

	ctx.Status(http.StatusNoContent)
}
