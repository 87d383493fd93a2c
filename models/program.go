package models

import "fmt"

// AddCourse appends course to the program
func (p *Program) AddCourse(course *Course) error {
	if course == nil || course.ProgramName != p.Name {
		return fmt.Errorf("course does not belong to program %q: %w", p.Name, ErrInvalidAttachment)
	}
	if _, err := p.FindCourse(course.Name); err == nil {
		return fmt.Errorf("course %q in program %q: %w", course.Name, p.Name, ErrDuplicate)
	}
	p.Courses = append(p.Courses, course)
	return nil
}

// FindCourse returns the first course named name (case-sensitive)
func (p *Program) FindCourse(name string) (*Course, error) {
	for _, c := range p.Courses {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course %q in program %q: %w", name, p.Name, ErrNotFound)
}

// CourseNames lists the program's course names in insertion order
func (p *Program) CourseNames() []string {
	names := make([]string, 0, len(p.Courses))
	for _, c := range p.Courses {
		names = append(names, c.Name)
	}
	return names
}
