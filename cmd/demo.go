package cmd

import (
	"fmt"
	"strings"

	"academia-server-go/models"
	"github.com/spf13/cobra"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build the sample institution, record grades and print the queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, done, err := setup()
			if err != nil {
				return err
			}
			defer done()
			return runDemo(cmd)
		},
	}
}

func runDemo(cmd *cobra.Command) error {
	inst, err := models.BuildSampleInstitution()
	if err != nil {
		return err
	}
	if err := models.RecordSampleGrades(inst); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	queries := []struct{ control, course string }{
		{"2023001", models.SampleCalculus},
		{"2023001", models.SamplePhysics},
		{"2023002", models.SampleCalculus},
		{"2023002", models.SamplePhysics},
	}
	for _, q := range queries {
		s, err := inst.FindStudent(q.control)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s, %s: %s\n", s.Name, q.course, s.GradeReport(q.course))
	}

	engineering, err := inst.FindProgram(models.SampleEngineering)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Courses in %s: %s\n", engineering.Name, strings.Join(engineering.CourseNames(), ", "))
	return nil
}
