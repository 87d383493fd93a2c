package handlers

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with middleware and all API routes
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), AccessLog(), gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/ping", PingHandler)
		api.GET("/institution", h.GetInstitution)

		// Program and course routes
		api.GET("/programs", h.GetAllPrograms)
		api.POST("/programs", h.AddProgram)
		api.GET("/programs/:program", h.GetProgram)
		api.GET("/programs/:program/courses", h.GetCourses)
		api.POST("/programs/:program/courses", h.AddCourse)
		api.GET("/programs/:program/courses/:course", h.GetCourse)

		// Student routes
		api.GET("/students", h.GetAllStudents)
		api.POST("/students", h.AddStudent)
		api.GET("/students/:control", h.GetStudent)
		api.PUT("/students/:control/program", h.AssignProgram)
		api.GET("/students/:control/grades/:course", h.GetGrade)

		// Professor routes
		api.GET("/professors", h.GetAllProfessors)
		api.POST("/professors", h.AddProfessor)
		api.POST("/professors/:curp/grades", h.RecordGrade)

		// Spreadsheets and persistence
		api.POST("/import/students", h.ImportStudents)
		api.GET("/export/grades", h.ExportGrades)
		api.POST("/snapshot", h.SaveSnapshot)
	}
	return router
}
