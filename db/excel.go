package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"academia-server-go/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// GradeSheet is the sheet name used by WriteGradeReport
const GradeSheet = "Grades"

// StudentRow is one student read from an import spreadsheet
type StudentRow struct {
	ControlNumber string
	Name          string
	Age           int
	Program       string // Optional
}

// ParseStudentSheet reads students from the first sheet of an Excel file.
// Columns: A control number, B name, C age, D program. Row 1 is a header.
// Rows missing a control number or a name, or with a non-numeric age, are skipped.
func ParseStudentSheet(file io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("error closing excel file", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	students := []StudentRow{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(idx int) string {
			if len(row) > idx {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		st := StudentRow{ControlNumber: cell(0), Name: cell(1), Program: cell(3)}
		if st.ControlNumber == "" || st.Name == "" {
			zap.L().Warn("skipping row with missing control number or name", zap.Int("row", i+1))
			continue
		}
		if raw := cell(2); raw != "" {
			age, err := strconv.Atoi(raw)
			if err != nil {
				zap.L().Warn("skipping row with invalid age", zap.Int("row", i+1), zap.String("age", raw))
				continue
			}
			st.Age = age
		}
		students = append(students, st)
	}
	return students, nil
}

// ImportStudents adds rows to inst. Unknown programs are created. Rows that
// cannot be added (duplicates, invalid data) are logged and skipped; the
// number of students added is returned.
func ImportStudents(inst *models.Institution, rows []StudentRow) int {
	imported := 0
	for _, row := range rows {
		st, err := models.NewStudent(row.Name, row.ControlNumber, row.Age)
		if err != nil {
			zap.L().Warn("skipping invalid student", zap.String("controlNumber", row.ControlNumber), zap.Error(err))
			continue
		}
		if row.Program != "" {
			p, err := inst.FindProgram(row.Program)
			if errors.Is(err, models.ErrNotFound) {
				zap.L().Info("creating program for imported student", zap.String("program", row.Program))
				if p, err = models.NewProgram(row.Program); err == nil {
					err = inst.AddProgram(p)
				}
			}
			if err != nil {
				zap.L().Warn("skipping student with unusable program", zap.String("controlNumber", row.ControlNumber), zap.Error(err))
				continue
			}
			st.AssignProgram(p)
		}
		if err := inst.AddStudent(st); err != nil {
			zap.L().Warn("skipping student", zap.String("controlNumber", row.ControlNumber), zap.Error(err))
			continue
		}
		imported++
	}
	zap.L().Info("imported students", zap.Int("count", imported), zap.Int("rows", len(rows)))
	return imported
}

// WriteGradeReport writes one row per student with a column per course.
// Courses without a grade are left blank.
func WriteGradeReport(w io.Writer, inst *models.Institution) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("error closing excel file", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), GradeSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Grades are keyed by course name, so programs sharing a name share a column.
	var courses []string
	seen := map[string]bool{}
	for _, c := range inst.CourseNames() {
		if !seen[c] {
			seen[c] = true
			courses = append(courses, c)
		}
	}
	header := []interface{}{"Control Number", "Name", "Program"}
	for _, c := range courses {
		header = append(header, c)
	}
	if err := f.SetSheetRow(GradeSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, st := range inst.Students {
		line := i + 2
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		row := []interface{}{st.ControlNumber, st.Name, st.ProgramName}
		if err := f.SetSheetRow(GradeSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", st.ControlNumber, err)
		}
		for col, c := range courses {
			g, err := st.Grade(c)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+4, line)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(GradeSheet, cell, g, -1, 64); err != nil {
				return fmt.Errorf("failed to write grade for %s: %w", st.ControlNumber, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write grade report: %w", err)
	}
	return nil
}
