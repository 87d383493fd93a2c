package db

import (
	"bytes"
	"testing"

	"academia-server-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func studentWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseStudentSheet(t *testing.T) {
	buf := studentWorkbook(t, [][]interface{}{
		{"Control", "Name", "Age", "Program"},
		{"2024001", "Ana Ruiz", 19, "Ingeniería"},
		{"2024002", "", 20, "Ingeniería"},
		{"2024003", "Pedro Luna", "veinte", ""},
		{"2024004", "Sofía Mar"},
	})

	rows, err := ParseStudentSheet(buf)
	require.NoError(t, err)
	assert.Equal(t, []StudentRow{
		{ControlNumber: "2024001", Name: "Ana Ruiz", Age: 19, Program: "Ingeniería"},
		{ControlNumber: "2024004", Name: "Sofía Mar"},
	}, rows)
}

func TestParseStudentSheetRejectsGarbage(t *testing.T) {
	_, err := ParseStudentSheet(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}

func TestImportStudents(t *testing.T) {
	inst, err := models.BuildSampleInstitution()
	require.NoError(t, err)

	n := ImportStudents(inst, []StudentRow{
		{ControlNumber: "2024001", Name: "Ana Ruiz", Age: 19, Program: models.SampleEngineering},
		{ControlNumber: "2023001", Name: "Duplicate", Age: 30},
		{ControlNumber: "2024002", Name: "Pedro Luna", Age: 20, Program: "Medicina"},
		{ControlNumber: "2024003", Name: "Sofía Mar", Age: -4},
	})
	assert.Equal(t, 2, n)
	assert.Len(t, inst.Students, 4)

	_, err = inst.FindProgram("Medicina")
	require.NoError(t, err)
	pedro, err := inst.FindStudent("2024002")
	require.NoError(t, err)
	assert.Equal(t, "Medicina", pedro.ProgramName)
}

func TestWriteGradeReport(t *testing.T) {
	inst, err := models.BuildSampleInstitution()
	require.NoError(t, err)
	require.NoError(t, models.RecordSampleGrades(inst))

	var buf bytes.Buffer
	require.NoError(t, WriteGradeReport(&buf, inst))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(GradeSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Control Number", "Name", "Program", models.SampleCalculus, models.SamplePhysics, models.SampleSociology}, rows[0])
	assert.Equal(t, []string{"2023001", "Juan Pérez", models.SampleEngineering, "8.5", "7.5"}, rows[1])
	assert.Equal(t, []string{"2023002", "Luisa Gómez", models.SampleEngineering, "9"}, rows[2])
}

func TestWriteGradeReportSharedCourseName(t *testing.T) {
	inst, err := models.BuildSampleInstitution()
	require.NoError(t, err)
	social, err := inst.FindProgram(models.SampleSocial)
	require.NoError(t, err)
	calc, err := models.NewCourse(models.SampleCalculus, social)
	require.NoError(t, err)
	require.NoError(t, social.AddCourse(calc))
	require.NoError(t, models.RecordSampleGrades(inst))

	var buf bytes.Buffer
	require.NoError(t, WriteGradeReport(&buf, inst))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(GradeSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Control Number", "Name", "Program", models.SampleCalculus, models.SamplePhysics, models.SampleSociology}, rows[0])
	assert.Equal(t, []string{"2023001", "Juan Pérez", models.SampleEngineering, "8.5", "7.5"}, rows[1])
}
