package handler

import (
	"staffhub/internal/core"
	cErr "staffhub/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerIdentity 取出身分中介層放進 context 的 Claims 並轉成 ObjectID
func callerIdentity(c *gin.Context) (primitive.ObjectID, error) {
	value, exists := c.Get(core.ContextIdentityKey)
	if !exists {
		return primitive.NilObjectID, cErr.Unauthorized("missing identity")
	}
	claims, ok := value.(*core.Claims)
	if !ok {
		return primitive.NilObjectID, cErr.Unauthorized("invalid identity")
	}
	callerID, err := primitive.ObjectIDFromHex(claims.EmployeeID)
	if err != nil {
		return primitive.NilObjectID, cErr.Unauthorized("invalid identity")
	}
	return callerID, nil
}
