package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pathID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "project_id")
}

func GetAssignmentID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "assignment_id")
}

func GetCommentID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "comment_id")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "user_id")
}

func GetTemplateID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "template_id")
}
