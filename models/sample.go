package models

import "fmt"

// Sample data used by the demo command and for seeding an empty store.
const (
	SampleInstitution = "Instituto"
	SampleEngineering = "Ingeniería"
	SampleSocial      = "Licenciatura en Ciencias Sociales"
	SampleCalculus    = "Cálculo I"
	SamplePhysics     = "Física I"
	SampleSociology   = "Introducción a la Sociología"
)

// BuildSampleInstitution assembles the sample institution: two programs,
// three courses, two students and two professors. No grades are recorded.
func BuildSampleInstitution() (*Institution, error) {
	inst, err := NewInstitution(SampleInstitution)
	if err != nil {
		return nil, err
	}

	programs := map[string][]string{
		SampleEngineering: {SampleCalculus, SamplePhysics},
		SampleSocial:      {SampleSociology},
	}
	for _, name := range []string{SampleEngineering, SampleSocial} {
		p, err := NewProgram(name)
		if err != nil {
			return nil, err
		}
		if err := inst.AddProgram(p); err != nil {
			return nil, err
		}
		for _, courseName := range programs[name] {
			c, err := NewCourse(courseName, p)
			if err != nil {
				return nil, err
			}
			if err := p.AddCourse(c); err != nil {
				return nil, err
			}
		}
	}

	engineering, err := inst.FindProgram(SampleEngineering)
	if err != nil {
		return nil, err
	}

	students := []struct {
		name, control string
		age           int
	}{
		{"Juan Pérez", "2023001", 21},
		{"Luisa Gómez", "2023002", 24},
	}
	for _, st := range students {
		s, err := NewStudent(st.name, st.control, st.age)
		if err != nil {
			return nil, err
		}
		s.AssignProgram(engineering)
		if err := inst.AddStudent(s); err != nil {
			return nil, err
		}
	}

	professors := []struct {
		name, course, curp string
		age                int
	}{
		{"Dr. García", SampleCalculus, "GARC700101HDFRRS01", 54},
		{"Mtra. Rodríguez", SamplePhysics, "RODR800202MDFDRR02", 44},
	}
	for _, pr := range professors {
		c, err := engineering.FindCourse(pr.course)
		if err != nil {
			return nil, err
		}
		p, err := NewProfessor(pr.name, c, pr.age, pr.curp)
		if err != nil {
			return nil, err
		}
		if err := inst.AddProfessor(p); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// RecordSampleGrades records the sample grades on an institution built by
// BuildSampleInstitution.
func RecordSampleGrades(inst *Institution) error {
	grades := []struct {
		curp, control string
		grade         float64
	}{
		{"GARC700101HDFRRS01", "2023001", 8.5},
		{"GARC700101HDFRRS01", "2023002", 9.0},
		{"RODR800202MDFDRR02", "2023001", 7.5},
	}
	for _, g := range grades {
		prof, err := inst.FindProfessor(g.curp)
		if err != nil {
			return fmt.Errorf("recording sample grades: %w", err)
		}
		student, err := inst.FindStudent(g.control)
		if err != nil {
			return fmt.Errorf("recording sample grades: %w", err)
		}
		prof.RecordGrade(student, g.grade)
	}
	return nil
}
