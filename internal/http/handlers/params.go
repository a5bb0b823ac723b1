package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

func pathUUID(c *gin.Context, name, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, domainagg.InvalidArgument(op, "invalid %s", name)
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(c *gin.Context, name string, def int, op string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainagg.InvalidArgument(op, "%s must be an integer", name)
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst any, op string) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return domainagg.InvalidArgument(op, "invalid request body: %v", err)
	}
	return nil
}

// caller returns the authenticated user id, or uuid.Nil for anonymous requests.
func caller(c *gin.Context) uuid.UUID {
	id, _ := ctxutil.CallerID(c.Request.Context())
	return id
}

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}
