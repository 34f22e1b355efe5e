package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tajoco/contacts/internal/middleware"
)

func (r *Router) contactRoutes(api *gin.RouterGroup) {
	contacts := api.Group("/contacts")
	{
		contacts.Use(r.jwtMw.RequireAuth())
		{
			contacts.GET("", r.contactHandler.List)
			contacts.GET("/birthday", r.contactHandler.UpcomingBirthdays)
			contacts.GET("/:id", r.contactHandler.Get)
			contacts.PUT("/:id", r.contactHandler.Update)
			contacts.DELETE("/:id", r.contactHandler.Delete)

			// Creation gets a tighter per-user window
			contacts.POST("",
				middleware.RateLimit(r.Config.RateLimit.CreateRequest, r.Config.RateLimit.CreateDuration),
				r.contactHandler.Create)
		}
	}
}
