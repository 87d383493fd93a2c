package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned by lookups whose key does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidAttachment is returned when an entity is built without the entity it must belong to
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrDuplicate is returned when a registration reuses an existing key
	ErrDuplicate = errors.New("duplicate")
)

var validate = validator.New()

// Program represents a degree program (carrera)
type Program struct {
	Name    string    `json:"name" validate:"required,excludes=:"` // Unique within an institution
	Courses []*Course `json:"courses"`
}

// Course represents a course (materia) taught within exactly one program
type Course struct {
	Name        string   `json:"name" validate:"required"`
	ProgramName string   `json:"programName" validate:"required"` // Key of the owning program
	FinalGrade  *float64 `json:"finalGrade,omitempty"`
}

// Student represents a student (alumno)
type Student struct {
	Name          string             `json:"name" validate:"required"`
	ControlNumber string             `json:"controlNumber" validate:"required,excludes=:"` // Institution-wide student number
	ProgramName   string             `json:"programName,omitempty"`                        // Empty when unassigned
	Age           int                `json:"age" validate:"gte=0"`
	Grades        map[string]float64 `json:"grades"` // Course name -> grade
}

// Professor represents a professor (profesor) assigned to one course
type Professor struct {
	Name        string `json:"name" validate:"required"`
	CourseName  string `json:"courseName" validate:"required"`
	ProgramName string `json:"programName" validate:"required"`
	Age         int    `json:"age" validate:"gte=0"`
	CURP        string `json:"curp" validate:"required"` // National ID
}

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}
	return nil
}

// NewProgram creates an empty program
func NewProgram(name string) (*Program, error) {
	p := &Program{Name: name, Courses: []*Course{}}
	if err := validateStruct(p); err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return p, nil
}

// NewCourse creates a course attached to program. The course is not added to
// the program's list; call Program.AddCourse for that.
func NewCourse(name string, program *Program) (*Course, error) {
	if program == nil {
		return nil, fmt.Errorf("course %q has no program: %w", name, ErrInvalidAttachment)
	}
	c := &Course{Name: name, ProgramName: program.Name}
	if err := validateStruct(c); err != nil {
		return nil, fmt.Errorf("course %q: %w", name, err)
	}
	return c, nil
}

// SetFinalGrade stores the course's final grade
func (c *Course) SetFinalGrade(grade float64) {
	c.FinalGrade = &grade
}

// NewStudent creates a student without a program
func NewStudent(name, controlNumber string, age int) (*Student, error) {
	s := &Student{
		Name:          name,
		ControlNumber: controlNumber,
		Age:           age,
		Grades:        map[string]float64{},
	}
	if err := validateStruct(s); err != nil {
		return nil, fmt.Errorf("student %q: %w", controlNumber, err)
	}
	return s, nil
}

// NewProfessor creates a professor teaching course
func NewProfessor(name string, course *Course, age int, curp string) (*Professor, error) {
	if course == nil {
		return nil, fmt.Errorf("professor %q has no course: %w", name, ErrInvalidAttachment)
	}
	p := &Professor{
		Name:        name,
		CourseName:  course.Name,
		ProgramName: course.ProgramName,
		Age:         age,
		CURP:        curp,
	}
	if err := validateStruct(p); err != nil {
		return nil, fmt.Errorf("professor %q: %w", name, err)
	}
	return p, nil
}
