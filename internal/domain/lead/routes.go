package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead and lead note routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.POST("", handler.CreateLead)
		leads.GET("/notes", handler.ListWorkspaceNotes)
		leads.DELETE("/notes/:noteId", handler.DeleteNote)
		leads.GET("/:id", handler.GetLead)
		leads.PUT("/:id", handler.UpdateLead)
		leads.DELETE("/:id", handler.DeleteLead)
		leads.PATCH("/:id/status", handler.UpdateStatus)
		leads.GET("/:id/notes", handler.ListNotes)
		leads.POST("/:id/notes", handler.AddNote)
	}
}
