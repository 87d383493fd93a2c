package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"

	"academia-server-go/db"
	"academia-server-go/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SnapshotStore persists the institution. *db.RedisService implements it.
type SnapshotStore interface {
	SaveInstitution(ctx context.Context, inst *models.Institution) error
	SaveGrade(ctx context.Context, controlNumber, course string, grade float64) error
}

// APIHandler serves the institution over HTTP. The model itself is not safe
// for concurrent use, so every handler takes mu.
type APIHandler struct {
	mu          sync.RWMutex
	Institution *models.Institution
	Store       SnapshotStore // Optional
}

// NewAPIHandler creates a new APIHandler. store may be nil.
func NewAPIHandler(inst *models.Institution, store SnapshotStore) *APIHandler {
	return &APIHandler{
		Institution: inst,
		Store:       store,
	}
}

// statusFor maps model errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidAttachment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// --- Institution Handlers ---

// GetInstitution handles GET /api/institution
func (h *APIHandler) GetInstitution(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"name":       h.Institution.Name,
		"programs":   len(h.Institution.Programs),
		"students":   len(h.Institution.Students),
		"professors": len(h.Institution.Professors),
	})
}

// --- Program Handlers ---

type createProgramRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetAllPrograms handles GET /api/programs
func (h *APIHandler) GetAllPrograms(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c.JSON(http.StatusOK, h.Institution.Programs)
}

// GetProgram handles GET /api/programs/:program
func (h *APIHandler) GetProgram(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, err := h.Institution.FindProgram(c.Param("program"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// AddProgram handles POST /api/programs
func (h *APIHandler) AddProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	p, err := models.NewProgram(req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Institution.AddProgram(p); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// --- Course Handlers ---

type createCourseRequest struct {
	Name       string   `json:"name" binding:"required"`
	FinalGrade *float64 `json:"finalGrade"`
}

// GetCourses handles GET /api/programs/:program/courses
func (h *APIHandler) GetCourses(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, err := h.Institution.FindProgram(c.Param("program"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Courses)
}

// GetCourse handles GET /api/programs/:program/courses/:course
func (h *APIHandler) GetCourse(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	course, err := h.Institution.FindCourse(c.Param("program"), c.Param("course"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// AddCourse handles POST /api/programs/:program/courses
func (h *APIHandler) AddCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.Institution.FindProgram(c.Param("program"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	course, err := models.NewCourse(req.Name, p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if req.FinalGrade != nil {
		course.SetFinalGrade(*req.FinalGrade)
	}
	if err := p.AddCourse(course); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// --- Student Handlers ---

type createStudentRequest struct {
	Name          string `json:"name" binding:"required"`
	ControlNumber string `json:"controlNumber" binding:"required"`
	Age           int    `json:"age" binding:"gte=0"`
	Program       string `json:"program"`
}

type assignProgramRequest struct {
	Program string `json:"program"` // Empty clears the assignment
}

// GetAllStudents handles GET /api/students
func (h *APIHandler) GetAllStudents(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c.JSON(http.StatusOK, h.Institution.Students)
}

// GetStudent handles GET /api/students/:control
func (h *APIHandler) GetStudent(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, err := h.Institution.FindStudent(c.Param("control"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// AddStudent handles POST /api/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	s, err := models.NewStudent(req.Name, req.ControlNumber, req.Age)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if req.Program != "" {
		p, err := h.Institution.FindProgram(req.Program)
		if err != nil {
			abortWithError(c, err)
			return
		}
		s.AssignProgram(p)
	}
	if err := h.Institution.AddStudent(s); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// AssignProgram handles PUT /api/students/:control/program
func (h *APIHandler) AssignProgram(c *gin.Context) {
	var req assignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.Institution.FindStudent(c.Param("control"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var p *models.Program
	if req.Program != "" {
		if p, err = h.Institution.FindProgram(req.Program); err != nil {
			abortWithError(c, err)
			return
		}
	}
	s.AssignProgram(p)
	c.JSON(http.StatusOK, s)
}

// GetGrade handles GET /api/students/:control/grades/:course
func (h *APIHandler) GetGrade(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, err := h.Institution.FindStudent(c.Param("control"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	course := c.Param("course")
	grade, err := s.Grade(course)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": s.GradeReport(course)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"controlNumber": s.ControlNumber,
		"course":        course,
		"grade":         grade,
	})
}

// --- Professor Handlers ---

type createProfessorRequest struct {
	Name    string `json:"name" binding:"required"`
	Program string `json:"program" binding:"required"`
	Course  string `json:"course" binding:"required"`
	Age     int    `json:"age" binding:"gte=0"`
	CURP    string `json:"curp" binding:"required"`
}

type recordGradeRequest struct {
	ControlNumber string   `json:"controlNumber" binding:"required"`
	Grade         *float64 `json:"grade" binding:"required"`
}

// GetAllProfessors handles GET /api/professors
func (h *APIHandler) GetAllProfessors(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c.JSON(http.StatusOK, h.Institution.Professors)
}

// AddProfessor handles POST /api/professors
func (h *APIHandler) AddProfessor(c *gin.Context) {
	var req createProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	course, err := h.Institution.FindCourse(req.Program, req.Course)
	if err != nil {
		abortWithError(c, err)
		return
	}
	p, err := models.NewProfessor(req.Name, course, req.Age, req.CURP)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.Institution.AddProfessor(p); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// RecordGrade handles POST /api/professors/:curp/grades
func (h *APIHandler) RecordGrade(c *gin.Context) {
	var req recordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	prof, err := h.Institution.FindProfessor(c.Param("curp"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	s, err := h.Institution.FindStudent(req.ControlNumber)
	if err != nil {
		abortWithError(c, err)
		return
	}
	prof.RecordGrade(s, *req.Grade)

	if h.Store != nil {
		// The in-memory grade stands even if the store is unavailable.
		if err := h.Store.SaveGrade(c.Request.Context(), s.ControlNumber, prof.Course(), *req.Grade); err != nil {
			zap.L().Warn("grade not persisted", zap.String("controlNumber", s.ControlNumber), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"controlNumber": s.ControlNumber,
		"course":        prof.Course(),
		"grade":         *req.Grade,
	})
}

// --- Import / Export Handlers ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	zap.L().Info("received student import", zap.String("file", header.Filename))

	rows, err := db.ParseStudentSheet(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to import students: " + err.Error()})
		return
	}

	h.mu.Lock()
	imported := db.ImportStudents(h.Institution, rows)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": imported,
		"rows":          len(rows),
	})
}

// ExportGrades handles GET /api/export/grades
func (h *APIHandler) ExportGrades(c *gin.Context) {
	var buf bytes.Buffer
	h.mu.RLock()
	err := db.WriteGradeReport(&buf, h.Institution)
	h.mu.RUnlock()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grades.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SaveSnapshot handles POST /api/snapshot
func (h *APIHandler) SaveSnapshot(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No store configured"})
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if err := h.Store.SaveInstitution(c.Request.Context(), h.Institution); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot saved"})
}

// --- Ping Handler ---

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
