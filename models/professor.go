package models

import "go.uber.org/zap"

// Course returns the name of the course the professor teaches
func (p *Professor) Course() string {
	return p.CourseName
}

// RecordGrade stores grade in the student's grade map under the professor's
// course, overwriting any earlier grade for that course. A nil student is
// logged and ignored.
func (p *Professor) RecordGrade(s *Student, grade float64) {
	if s == nil {
		zap.L().Warn("grade not recorded: no student", zap.String("course", p.CourseName), zap.String("professor", p.Name))
		return
	}
	if s.Grades == nil {
		s.Grades = map[string]float64{}
	}
	s.Grades[p.CourseName] = grade
	zap.L().Info("grade recorded",
		zap.String("student", s.Name),
		zap.String("controlNumber", s.ControlNumber),
		zap.String("course", p.CourseName),
		zap.String("professor", p.Name),
		zap.Float64("grade", grade),
	)
}
