// Package commands implements the fastorm demo CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastorm/fastorm/cmd/fastorm/internal/config"
	"github.com/fastorm/fastorm/internal/debug"
	"github.com/fastorm/fastorm/runtime"
	"github.com/fastorm/fastorm/runtime/client"
	"github.com/fastorm/fastorm/schema"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "fastorm",
	Short: "Demo CLI for the fastorm mapping layer",
	Long: `fastorm exercises the mapping layer end to end against a local
SQLite database: schema definition, table creation, persistence,
fluent queries, and relation lookups.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")
}

// Execute is the main entry point for the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

// openEngine builds the engine over the demo schemas and the configured
// database file.
func openEngine() (*runtime.Engine, *client.SQLite, *demoSchemas, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	debug.Init(cfg.Debug)

	path := cfg.DatabasePath
	if dbPath != "" {
		path = dbPath
	}

	c, err := client.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := schema.NewRegistry()
	demo, err := defineSchemas(reg)
	if err != nil {
		c.Close()
		return nil, nil, nil, err
	}

	return runtime.New(reg, c), c, demo, nil
}

// demoSchemas is the dataset from a small company: departments own
// employees, employees work on projects through an assignment table.
type demoSchemas struct {
	Departments *schema.Schema
	Employees   *schema.Schema
	Projects    *schema.Schema
	Assignments *schema.Schema
}

func defineSchemas(reg *schema.Registry) (*demoSchemas, error) {
	departments, err := reg.Define("departments", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text, Unique: true},
		{Name: "budget", Type: schema.Real, Nullable: true},
	}, nil)
	if err != nil {
		return nil, err
	}

	employees, err := reg.Define("employees", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text},
		{Name: "email", Type: schema.Text, Unique: true},
		{Name: "salary", Type: schema.Real, Nullable: true},
		{Name: "department_id", Type: schema.Integer, Nullable: true},
	}, []schema.ForeignKey{
		{Column: "department_id", References: departments},
	})
	if err != nil {
		return nil, err
	}

	projects, err := reg.Define("projects", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text},
		{Name: "deadline", Type: schema.Text, Nullable: true},
	}, nil)
	if err != nil {
		return nil, err
	}

	assignments, err := reg.Define("employee_projects", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "employee_id", Type: schema.Integer},
		{Name: "project_id", Type: schema.Integer},
		{Name: "hours", Type: schema.Integer, Nullable: true},
	}, []schema.ForeignKey{
		{Column: "employee_id", References: employees},
		{Column: "project_id", References: projects},
	})
	if err != nil {
		return nil, err
	}

	return &demoSchemas{
		Departments: departments,
		Employees:   employees,
		Projects:    projects,
		Assignments: assignments,
	}, nil
}
