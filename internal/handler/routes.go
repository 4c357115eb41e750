package handler

import "github.com/gin-gonic/gin"

// RegisterConsoleRoutes mounts the console API under group. Everything except
// login and logout sits behind gate.
func RegisterConsoleRoutes(group *gin.RouterGroup, gate gin.HandlerFunc, sessions *SessionHandler, console *ConsoleHandler) {
	group.POST("/login", sessions.Login)
	group.POST("/logout", sessions.Logout)

	gated := group.Group("")
	gated.Use(gate)
	gated.GET("/session", sessions.Current)

	tabs := gated.Group("/tabs/:tab")
	tabs.GET("", console.View)
	tabs.POST("/activate", console.Activate)
	tabs.POST("/reload", console.Reload)
	tabs.PUT("/search", console.Search)
	tabs.PUT("/filters/:name", console.Filter)
	tabs.PUT("/page", console.Page)
	tabs.POST("/draft", console.BeginCreate)
	tabs.PATCH("/draft", console.UpdateDraft)
	tabs.DELETE("/draft", console.CancelDraft)
	tabs.POST("/draft/submit", console.SubmitDraft)
	tabs.POST("/records/:id/edit", console.BeginEdit)
	tabs.DELETE("/records/:id", console.Remove)
	tabs.GET("/export", console.Export)
	tabs.POST("/import", console.Import)
}

// RegisterRosterRoutes mounts the reference roster API: one REST collection
// per entity plus the login exchange.
func RegisterRosterRoutes(r gin.IRouter, faculties, students RecordRoutes, login *LoginHandler) {
	register := func(path string, h RecordRoutes) {
		r.GET(path, h.List)
		r.POST(path, h.Create)
		r.PUT(path+"/:id", h.Update)
		r.DELETE(path+"/:id", h.Delete)
	}
	register("/faculties", faculties)
	register("/students", students)
	r.POST("/login", login.Login)
}
