package handler

import "github.com/gin-gonic/gin"

// Register mounts every API route on the router.
func (h *Handler) Register(r *gin.Engine) {
	// schools and users
	r.GET("/schools", h.ListSchools)
	r.POST("/register", h.RegisterUser)
	r.POST("/login", h.Login)
	r.GET("/users/:school", h.ListUsers)
	r.GET("/users/:school/teachers", h.ListTeacherUsers)

	// documents
	r.GET("/documents/categories/:school", h.ListCategories)
	r.POST("/documents/categories", h.CreateCategory)
	r.DELETE("/documents/categories", h.DeleteCategory)
	r.GET("/documents/files/:school", h.ListDocuments)
	r.POST("/documents/upload", h.UploadDocument)
	r.GET("/documents/download/:id", h.DownloadDocument)

	// schedules
	r.GET("/schedules/:school", h.ListSchedules)
	r.GET("/schedules/:school/:teacher", h.GetSchedule)
	r.POST("/schedules", h.SaveSchedule)
	r.DELETE("/schedules/:school/:teacher", h.DeleteSchedule)

	// events
	r.GET("/events/:school", h.ListEvents)
	r.POST("/events", h.CreateEvent)
	r.PUT("/events/:id", h.UpdateEvent)
	r.DELETE("/events/:id", h.DeleteEvent)

	// QR attendance sessions
	r.GET("/attendance/sessions/:school", h.ListSessions)
	r.POST("/attendance/sessions", h.CreateSession)
	r.DELETE("/attendance/sessions/:id", h.DeleteSession)
	r.POST("/attendance/submissions", h.Submit)
	r.GET("/attendance/submissions/:id", h.ListSubmissions)
	r.GET("/attendance/stats/:school", h.SessionStats)

	// entry/exit marks and reports
	r.POST("/attendance/marks", h.RecordMark)
	r.POST("/attendance/marks/kiosk", h.RecordKioskMark)
	r.GET("/attendance/marks/:school", h.ListMarks)
	r.GET("/attendance/marks/:school/summary", h.DailySummary)
	r.GET("/attendance/marks/:school/people", h.SearchPeople)
	r.GET("/attendance/marks/:school/person", h.PersonDetail)
	r.GET("/attendance/marks/:school/matrix", h.EntryExitMatrix)

	// courses and students
	r.GET("/courses/:school", h.ListCourses)
	r.POST("/courses", h.CreateCourse)
	r.DELETE("/courses/:id", h.DeleteCourse)
	r.GET("/students/:school", h.ListStudents)
	r.POST("/students", h.CreateStudent)
	r.PUT("/students/:id", h.UpdateStudent)
	r.DELETE("/students/:id", h.DeleteStudent)

	// committees and teaching staff
	r.GET("/committees/:school", h.ListCommittees)
	r.POST("/committees", h.CreateCommittee)
	r.DELETE("/committees/:id", h.DeleteCommittee)
	r.GET("/staff/:school", h.ListStaff)
	r.POST("/staff", h.CreateStaff)
	r.PUT("/staff/:id", h.UpdateStaff)
	r.DELETE("/staff/:id", h.DeleteStaff)
}
