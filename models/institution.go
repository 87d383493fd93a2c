package models

import "fmt"

// Institution is the root aggregate (universidad). It owns programs, students
// and professors in insertion order.
type Institution struct {
	Name       string       `json:"name" validate:"required"`
	Programs   []*Program   `json:"programs"`
	Students   []*Student   `json:"students"`
	Professors []*Professor `json:"professors"`
}

// NewInstitution creates an empty institution
func NewInstitution(name string) (*Institution, error) {
	inst := &Institution{
		Name:       name,
		Programs:   []*Program{},
		Students:   []*Student{},
		Professors: []*Professor{},
	}
	if err := validateStruct(inst); err != nil {
		return nil, fmt.Errorf("institution %q: %w", name, err)
	}
	return inst, nil
}

// --- Programs ---

// AddProgram registers a program. Program names are unique.
func (i *Institution) AddProgram(p *Program) error {
	if p == nil {
		return fmt.Errorf("nil program: %w", ErrInvalidAttachment)
	}
	if _, err := i.FindProgram(p.Name); err == nil {
		return fmt.Errorf("program %q: %w", p.Name, ErrDuplicate)
	}
	i.Programs = append(i.Programs, p)
	return nil
}

// FindProgram returns the first program named name (case-sensitive)
func (i *Institution) FindProgram(name string) (*Program, error) {
	for _, p := range i.Programs {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("program %q: %w", name, ErrNotFound)
}

// FindCourse resolves a course through its owning program
func (i *Institution) FindCourse(programName, courseName string) (*Course, error) {
	p, err := i.FindProgram(programName)
	if err != nil {
		return nil, err
	}
	return p.FindCourse(courseName)
}

// --- Students ---

// AddStudent registers a student. Control numbers are unique.
func (i *Institution) AddStudent(s *Student) error {
	if s == nil {
		return fmt.Errorf("nil student: %w", ErrInvalidAttachment)
	}
	if _, err := i.FindStudent(s.ControlNumber); err == nil {
		return fmt.Errorf("student %q: %w", s.ControlNumber, ErrDuplicate)
	}
	i.Students = append(i.Students, s)
	return nil
}

// FindStudent returns the student with the given control number
func (i *Institution) FindStudent(controlNumber string) (*Student, error) {
	for _, s := range i.Students {
		if s.ControlNumber == controlNumber {
			return s, nil
		}
	}
	return nil, fmt.Errorf("student %q: %w", controlNumber, ErrNotFound)
}

// --- Professors ---

// AddProfessor registers a professor. National IDs are unique.
func (i *Institution) AddProfessor(p *Professor) error {
	if p == nil {
		return fmt.Errorf("nil professor: %w", ErrInvalidAttachment)
	}
	if _, err := i.FindProfessor(p.CURP); err == nil {
		return fmt.Errorf("professor %q: %w", p.CURP, ErrDuplicate)
	}
	i.Professors = append(i.Professors, p)
	return nil
}

// FindProfessor returns the professor with the given national ID
func (i *Institution) FindProfessor(curp string) (*Professor, error) {
	for _, p := range i.Professors {
		if p.CURP == curp {
			return p, nil
		}
	}
	return nil, fmt.Errorf("professor %q: %w", curp, ErrNotFound)
}

// CourseNames lists every course name across programs, in program then course order
func (i *Institution) CourseNames() []string {
	var names []string
	for _, p := range i.Programs {
		names = append(names, p.CourseNames()...)
	}
	return names
}
