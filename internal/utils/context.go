package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/middleware"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "project_id")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "task_id")
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return uint(id), nil
}
