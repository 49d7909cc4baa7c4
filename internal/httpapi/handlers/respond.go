package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/middleware"
	"github.com/suPer8Hu/wholesale-platform/internal/models"
)

func ok(c *gin.Context, data any) {
	common.OK(c, data)
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	common.Fail(c, httpStatus, code, msg)
}

// failErr maps a service error onto the response envelope.
func failErr(c *gin.Context, err error) {
	switch common.KindOf(err) {
	case common.KindValidation:
		fail(c, http.StatusBadRequest, 10002, common.Message(err))
	case common.KindNotFound:
		fail(c, http.StatusNotFound, 40401, common.Message(err))
	case common.KindForbidden:
		fail(c, http.StatusForbidden, 40301, common.Message(err))
	case common.KindConflict:
		fail(c, http.StatusConflict, 40901, common.Message(err))
	case common.KindUnavailable:
		log.Printf("[HTTP] %s %s request_id=%s err=%v", c.Request.Method, c.FullPath(), c.GetString(middleware.RequestIDKey), err)
		fail(c, http.StatusServiceUnavailable, 50301, "service unavailable")
	case common.KindProvider:
		log.Printf("[HTTP] %s %s request_id=%s err=%v", c.Request.Method, c.FullPath(), c.GetString(middleware.RequestIDKey), err)
		fail(c, http.StatusBadGateway, 50201, common.Message(err))
	default:
		log.Printf("[HTTP] %s %s request_id=%s err=%v", c.Request.Method, c.FullPath(), c.GetString(middleware.RequestIDKey), err)
		fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return false
	}
	return true
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// mustUser writes 401 and returns false when no user is on the context.
func mustUser(c *gin.Context) (uint64, bool) {
	uid, found := userIDFromContext(c)
	if !found {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
	return uid, found
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.RoleKey) == string(models.RoleAdmin)
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, 10002, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, 10002, name+" is required")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string, required bool) (int64, bool) {
	raw := c.Query(name)
	if raw == "" && !required {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		fail(c, http.StatusBadRequest, 10002, "invalid "+name)
		return 0, false
	}
	return v, true
}
