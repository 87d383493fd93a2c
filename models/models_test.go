package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEngineering(t *testing.T) (*Program, *Course, *Course) {
	t.Helper()
	p, err := NewProgram("Ingeniería")
	require.NoError(t, err)
	calc, err := NewCourse("Cálculo I", p)
	require.NoError(t, err)
	fis, err := NewCourse("Física I", p)
	require.NoError(t, err)
	require.NoError(t, p.AddCourse(calc))
	require.NoError(t, p.AddCourse(fis))
	return p, calc, fis
}

func TestConstructorsRejectMissingAttachments(t *testing.T) {
	_, err := NewCourse("Cálculo I", nil)
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = NewCourse("Cálculo I", &Program{})
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = NewProfessor("Dr. García", nil, 50, "GARC700101HDFRRS01")
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, calc, _ := newEngineering(t)
	_, err = NewProfessor("Dr. García", calc, 50, "")
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = NewInstitution("")
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = NewStudent("Juan Pérez", "2023001", -1)
	assert.ErrorIs(t, err, ErrInvalidAttachment)
}

func TestProgramCourses(t *testing.T) {
	p, calc, _ := newEngineering(t)

	got, err := p.FindCourse("Cálculo I")
	require.NoError(t, err)
	assert.Same(t, calc, got)

	_, err = p.FindCourse("cálculo i")
	assert.ErrorIs(t, err, ErrNotFound)

	dup, err := NewCourse("Cálculo I", p)
	require.NoError(t, err)
	assert.ErrorIs(t, p.AddCourse(dup), ErrDuplicate)

	other, err := NewProgram("Licenciatura")
	require.NoError(t, err)
	foreign, err := NewCourse("Sociología", other)
	require.NoError(t, err)
	assert.ErrorIs(t, p.AddCourse(foreign), ErrInvalidAttachment)

	assert.Equal(t, []string{"Cálculo I", "Física I"}, p.CourseNames())
}

func TestInstitutionFindProgram(t *testing.T) {
	inst, err := NewInstitution("Instituto")
	require.NoError(t, err)
	p, _, _ := newEngineering(t)
	require.NoError(t, inst.AddProgram(p))

	got, err := inst.FindProgram("Ingeniería")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = inst.FindProgram("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	again, err := NewProgram("Ingeniería")
	require.NoError(t, err)
	assert.ErrorIs(t, inst.AddProgram(again), ErrDuplicate)
	assert.Len(t, inst.Programs, 1)
}

func TestInstitutionStudentsAndProfessors(t *testing.T) {
	inst, err := NewInstitution("Instituto")
	require.NoError(t, err)
	_, calc, _ := newEngineering(t)

	s, err := NewStudent("Juan Pérez", "2023001", 21)
	require.NoError(t, err)
	require.NoError(t, inst.AddStudent(s))
	twin, err := NewStudent("Juan Pérez Jr.", "2023001", 19)
	require.NoError(t, err)
	assert.ErrorIs(t, inst.AddStudent(twin), ErrDuplicate)

	prof, err := NewProfessor("Dr. García", calc, 54, "GARC700101HDFRRS01")
	require.NoError(t, err)
	require.NoError(t, inst.AddProfessor(prof))

	found, err := inst.FindProfessor("GARC700101HDFRRS01")
	require.NoError(t, err)
	assert.Same(t, prof, found)
	_, err = inst.FindStudent("9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentAssignProgram(t *testing.T) {
	s, err := NewStudent("Luisa Gómez", "2023002", 24)
	require.NoError(t, err)
	_, ok := s.Program()
	assert.False(t, ok)

	p, _, _ := newEngineering(t)
	s.AssignProgram(p)
	name, ok := s.Program()
	assert.True(t, ok)
	assert.Equal(t, "Ingeniería", name)

	other, err := NewProgram("Licenciatura")
	require.NoError(t, err)
	s.AssignProgram(other)
	name, _ = s.Program()
	assert.Equal(t, "Licenciatura", name)

	s.AssignProgram(nil)
	_, ok = s.Program()
	assert.False(t, ok)
}

func TestRecordGrade(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	_, calc, fis := newEngineering(t)
	prof, err := NewProfessor("Dr. García", calc, 54, "GARC700101HDFRRS01")
	require.NoError(t, err)
	s, err := NewStudent("Juan Pérez", "2023001", 21)
	require.NoError(t, err)

	_, err = s.Grade(calc.Name)
	assert.ErrorIs(t, err, ErrNotFound)

	prof.RecordGrade(s, 8.5)
	got, err := s.Grade("Cálculo I")
	require.NoError(t, err)
	assert.Equal(t, 8.5, got)

	prof.RecordGrade(s, 6.0)
	got, err = s.Grade("Cálculo I")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	_, err = s.Grade(fis.Name)
	assert.ErrorIs(t, err, ErrNotFound)

	entries := logs.FilterMessage("grade recorded").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "Cálculo I", fields["course"])
	assert.Equal(t, 6.0, fields["grade"])
}

func TestGradeReport(t *testing.T) {
	s, err := NewStudent("Juan Pérez", "2023001", 21)
	require.NoError(t, err)
	s.Grades["Cálculo I"] = 8.5

	assert.Equal(t, "8.5", s.GradeReport("Cálculo I"))
	assert.Equal(t, `No grade recorded for "Física I".`, s.GradeReport("Física I"))
}

func TestSampleScenario(t *testing.T) {
	inst, err := BuildSampleInstitution()
	require.NoError(t, err)
	require.Len(t, inst.Programs, 2)
	require.Len(t, inst.Students, 2)
	require.Len(t, inst.Professors, 2)

	juan, err := inst.FindStudent("2023001")
	require.NoError(t, err)
	name, _ := juan.Program()
	assert.Equal(t, SampleEngineering, name)

	garcia, err := inst.FindProfessor("GARC700101HDFRRS01")
	require.NoError(t, err)
	garcia.RecordGrade(juan, 8.5)

	got, err := juan.Grade(SampleCalculus)
	require.NoError(t, err)
	assert.Equal(t, 8.5, got)
	_, err = juan.Grade(SamplePhysics)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, RecordSampleGrades(inst))
	luisa, err := inst.FindStudent("2023002")
	require.NoError(t, err)
	assert.Equal(t, "9", luisa.GradeReport(SampleCalculus))
	assert.Equal(t, "7.5", juan.GradeReport(SamplePhysics))

	assert.Equal(t, []string{SampleCalculus, SamplePhysics, SampleSociology}, inst.CourseNames())
}

func TestKeysRejectColons(t *testing.T) {
	_, err := NewStudent("Juan Pérez", "2023001:grades", 21)
	assert.ErrorIs(t, err, ErrInvalidAttachment)

	_, err = NewProgram("Ingeniería:Civil")
	assert.ErrorIs(t, err, ErrInvalidAttachment)
}

func TestRecordGradeNilStudent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	_, calc, _ := newEngineering(t)
	prof, err := NewProfessor("Dr. García", calc, 54, "GARC700101HDFRRS01")
	require.NoError(t, err)

	assert.NotPanics(t, func() { prof.RecordGrade(nil, 8.5) })
	assert.Equal(t, 1, logs.FilterMessage("grade not recorded: no student").Len())
}
