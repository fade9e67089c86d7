package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/runtime"
	"github.com/fastorm/fastorm/runtime/client"
	"github.com/fastorm/fastorm/schema"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the demo tables and seed them",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, c, demo, err := openEngine()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := context.Background()

		if err := engine.CreateAllTables(ctx); err != nil {
			return err
		}
		color.Green("created %d tables", len(engine.Registry().Schemas()))

		// Seed inside one transaction so a half-written dataset never
		// hits the file.
		err = c.Transaction(ctx, func(*client.SQLite) error {
			return seed(ctx, engine, demo)
		})
		if err != nil {
			return err
		}

		color.Green("seeded demo data")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func seed(ctx context.Context, engine *runtime.Engine, demo *demoSchemas) error {
	it, err := insert(ctx, engine, demo.Departments, map[string]any{
		"name": "IT", "budget": 100000.0,
	})
	if err != nil {
		return err
	}
	hr, err := insert(ctx, engine, demo.Departments, map[string]any{
		"name": "HR", "budget": 80000.0,
	})
	if err != nil {
		return err
	}

	itID, _ := it.PrimaryKey()
	hrID, _ := hr.PrimaryKey()

	employees := []map[string]any{
		{"name": "Carlos Ruiz", "email": "carlos@example.com", "salary": 45000.0, "department_id": itID},
		{"name": "Ana Lopez", "email": "ana@example.com", "salary": 42000.0, "department_id": itID},
		{"name": "Pedro Martinez", "email": "pedro@example.com", "salary": 38000.0, "department_id": hrID},
	}
	var employeeIDs []int64
	for _, values := range employees {
		rec, err := insert(ctx, engine, demo.Employees, values)
		if err != nil {
			return err
		}
		id, _ := rec.PrimaryKey()
		employeeIDs = append(employeeIDs, id)
	}

	projects := []map[string]any{
		{"name": "Management System", "deadline": "2023-12-31"},
		{"name": "Web Portal", "deadline": "2023-10-15"},
		{"name": "Mobile App", "deadline": "2024-02-28"},
	}
	var projectIDs []int64
	for _, values := range projects {
		rec, err := insert(ctx, engine, demo.Projects, values)
		if err != nil {
			return err
		}
		id, _ := rec.PrimaryKey()
		projectIDs = append(projectIDs, id)
	}

	assignments := []map[string]any{
		{"employee_id": employeeIDs[0], "project_id": projectIDs[0], "hours": 20},
		{"employee_id": employeeIDs[0], "project_id": projectIDs[1], "hours": 15},
		{"employee_id": employeeIDs[1], "project_id": projectIDs[0], "hours": 30},
		{"employee_id": employeeIDs[2], "project_id": projectIDs[2], "hours": 25},
	}
	for _, values := range assignments {
		if _, err := insert(ctx, engine, demo.Assignments, values); err != nil {
			return err
		}
	}

	return nil
}

func insert(ctx context.Context, engine *runtime.Engine, s *schema.Schema, values map[string]any) (*record.Record, error) {
	rec := record.New(s)
	for name, v := range values {
		if err := rec.Set(name, v); err != nil {
			return nil, err
		}
	}
	if err := engine.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
