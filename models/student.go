package models

import (
	"fmt"
	"strconv"
)

// AssignProgram sets the student's program, replacing any previous one.
// A nil program leaves the student unassigned.
func (s *Student) AssignProgram(program *Program) {
	if program == nil {
		s.ProgramName = ""
		return
	}
	s.ProgramName = program.Name
}

// Program returns the name of the student's program and whether one is assigned
func (s *Student) Program() (string, bool) {
	return s.ProgramName, s.ProgramName != ""
}

// Grade returns the grade recorded for courseName
func (s *Student) Grade(courseName string) (float64, error) {
	grade, ok := s.Grades[courseName]
	if !ok {
		return 0, fmt.Errorf("grade for %q: %w", courseName, ErrNotFound)
	}
	return grade, nil
}

// GradeReport renders the result of Grade as a human-readable line
func (s *Student) GradeReport(courseName string) string {
	grade, err := s.Grade(courseName)
	if err != nil {
		return fmt.Sprintf("No grade recorded for %q.", courseName)
	}
	return strconv.FormatFloat(grade, 'f', -1, 64)
}
