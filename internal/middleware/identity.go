package middleware

import (
	"strings"

	"staffhub/config"
	"staffhub/internal/core"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/pkg/response"
	"staffhub/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Identity 從 Bearer token 解出呼叫者身分（員工 id），放進 gin context。
// 後台所有 /admin 路由都經過這層；驗的是身分不是權限，授權交給上游閘道。
type Identity struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	conf   *config.Configuration
}

func NewIdentity(logger *zap.Logger, trace *telemetry.Trace, conf *config.Configuration) *Identity {
	return &Identity{logger: logger, trace: trace, conf: conf}
}

type identityMeta struct {
	EmployeeID string `trace:"identity.employee_id,omitempty"`
	Status     string `trace:"identity.status"`
}

func (m *Identity) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanIdentityMiddleware))

		raw := c.GetHeader("Authorization")
		if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
			m.trace.ApplyTraceAttributes(span, identityMeta{Status: "missing_token"})
			cause := cErr.Unauthorized("missing bearer token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}
		tokenStr := strings.TrimPrefix(raw, "Bearer ")

		claims := &core.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.conf.App.SecretKey), nil
		})
		if err != nil || !token.Valid || claims.EmployeeID == "" {
			m.trace.ApplyTraceAttributes(span, identityMeta{Status: "invalid_token"})
			m.logger.Warn("invalid bearer token", zap.Error(err))
			cause := cErr.Unauthorized("invalid bearer token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		c.Set(core.ContextIdentityKey, claims)
		m.trace.ApplyTraceAttributes(span, identityMeta{
			EmployeeID: claims.EmployeeID,
			Status:     "success",
		})
		end(nil)
		c.Next()
	}
}
