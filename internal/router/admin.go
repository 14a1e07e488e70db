package router

import (
	"staffhub/internal/handler"
	"staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	identity        *middleware.Identity
	rotaHandler     *handler.RotaHandler
	swapHandler     *handler.SwapHandler
	teamRotaHandler *handler.TeamRotaHandler
	employeeHandler *handler.EmployeeHandler
	teamHandler     *handler.TeamHandler
}

func NewAdminRouter(
	identity *middleware.Identity,
	rotaHandler *handler.RotaHandler,
	swapHandler *handler.SwapHandler,
	teamRotaHandler *handler.TeamRotaHandler,
	employeeHandler *handler.EmployeeHandler,
	teamHandler *handler.TeamHandler,
) *AdminRouter {
	return &AdminRouter{
		identity:        identity,
		rotaHandler:     rotaHandler,
		swapHandler:     swapHandler,
		teamRotaHandler: teamRotaHandler,
		employeeHandler: employeeHandler,
		teamHandler:     teamHandler,
	}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin", ar.identity.Handler())

	rota := admin.Group("/rota")
	{
		rota.POST("/assignments", ar.rotaHandler.Create)
		rota.GET("/assignments", ar.rotaHandler.List)
		rota.GET("/assignments/groups", ar.rotaHandler.ListGroups)
		rota.GET("/assignments/:assignmentID", ar.rotaHandler.Get)
		rota.PUT("/assignments/:assignmentID", ar.rotaHandler.Update)
		rota.DELETE("/assignments/:assignmentID", ar.rotaHandler.Delete)
		rota.DELETE("/groups/:groupID", ar.rotaHandler.DeleteGroup)
		rota.GET("/statistics/hours", ar.rotaHandler.Hours)

		// 換班流程掛在單筆排班底下
		rota.POST("/assignments/:assignmentID/swap", ar.swapHandler.Request)
		rota.PATCH("/assignments/:assignmentID/swap/approve", ar.swapHandler.Approve)
		rota.PATCH("/assignments/:assignmentID/swap/reject", ar.swapHandler.Reject)

		// 班組批次排班
		rota.POST("/teams/:teamID/assignments", ar.teamRotaHandler.Assign)
	}

	employees := admin.Group("/employees")
	{
		employees.GET("", ar.employeeHandler.List)
		employees.GET("/:employeeID", ar.employeeHandler.Get)
		employees.POST("", ar.employeeHandler.Create)
		employees.PUT("/:employeeID", ar.employeeHandler.Update)
		employees.DELETE("/:employeeID", ar.employeeHandler.Delete)
	}

	teams := admin.Group("/teams")
	{
		teams.GET("", ar.teamHandler.List)
		teams.GET("/:teamID", ar.teamHandler.Get)
		teams.POST("", ar.teamHandler.Create)
		teams.PUT("/:teamID", ar.teamHandler.Update)
		teams.DELETE("/:teamID", ar.teamHandler.Delete)
	}
}
