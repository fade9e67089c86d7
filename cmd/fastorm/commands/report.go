package commands

import (
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fastorm/fastorm"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the demo queries against the seeded database",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, c, demo, err := openEngine()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := context.Background()

		color.Cyan("== IT employees ==")
		it, err := engine.Query(demo.Departments).Where("name = ?", "IT").First(ctx)
		if err != nil {
			return err
		}
		itEmployees, err := engine.HasMany(ctx, it, demo.Employees)
		if err != nil {
			return err
		}
		for _, emp := range itEmployees {
			name, _ := emp.Text("name")
			email, _ := emp.Text("email")
			color.White("%s - %s", name, email)
		}

		color.Cyan("== Carlos's projects ==")
		carlos, err := engine.Query(demo.Employees).
			Where("email = ?", "carlos@example.com").
			First(ctx)
		if errors.Is(err, fastorm.ErrNotFound) {
			color.Yellow("carlos is not in the database, run init first")
			return nil
		}
		if err != nil {
			return err
		}
		carlosID, _ := carlos.PrimaryKey()

		carlosProjects, err := engine.Query(demo.Projects).
			Select("projects.name", "projects.deadline", "employee_projects.hours").
			Join("employee_projects", "projects.id = employee_projects.project_id").
			Where("employee_projects.employee_id = ?", carlosID).
			All(ctx)
		if err != nil {
			return err
		}
		for _, p := range carlosProjects {
			name, _ := p.Value("name")
			deadline, _ := p.Value("deadline")
			hours, _ := p.Value("hours")
			color.White("%v (until %v) - %v hours", name, deadline, hours)
		}

		color.Cyan("== Employees with departments ==")
		withDept, err := engine.Query(demo.Employees).
			Select("employees.name", "departments.name AS department", "employees.salary").
			Join("departments", "employees.department_id = departments.id").
			OrderBy("employees.salary", "DESC").
			All(ctx)
		if err != nil {
			return err
		}
		for _, emp := range withDept {
			name, _ := emp.Value("name")
			dept, _ := emp.Value("department")
			salary, _ := emp.Value("salary")
			color.White("%v - %v - $%v", name, dept, salary)
		}

		color.Cyan("== Headcount ==")
		total, err := engine.Query(demo.Employees).Count(ctx)
		if err != nil {
			return err
		}
		color.White("%d employees", total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
