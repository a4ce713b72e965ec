package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/rankbbs/middleware"
	"github.com/cppla/rankbbs/utils"
)

var errBadLimit = errors.New("limit must be a non-negative integer")

// parseID reads a non-negative integer path parameter.
func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name)
		return 0, false
	}
	return id, true
}

// parseLimit applies the default when raw is empty and clamps to max.
func parseLimit(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadLimit
	}
	if n > max {
		n = max
	}
	return n, nil
}

// normalizeUserID is the single rule applied to every user id crossing the boundary.
func normalizeUserID(id string) string {
	return strings.TrimSpace(id)
}

// actingUser resolves who performs a write. Without auth the claimed id is used as is.
// With auth the token subject fills an empty claim and must equal a non-empty one.
func actingUser(ctx *gin.Context, authEnabled bool, claimed string) (string, bool) {
	claimed = normalizeUserID(claimed)
	if !authEnabled {
		return claimed, true
	}
	subject, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return "", false
	}
	if claimed == "" {
		return subject, true
	}
	if claimed != subject {
		utils.Error(ctx, http.StatusForbidden, 40301, "acting user does not match token")
		return "", false
	}
	return claimed, true
}

func requestLogFields(ctx *gin.Context) []interface{} {
	return []interface{}{"request_id", ctx.GetString(utils.RequestIDKey), "path", ctx.FullPath()}
}
