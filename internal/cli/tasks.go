// internal/cli/tasks.go
package cli

import (
	"fmt"
	"strconv"

	"taskdesk/internal/app"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/middleware"

	"github.com/spf13/cobra"
)

type taskFlags struct {
	title       string
	description string
	categoryID  int64
	startDate   string
	endDate     string
	status      string
}

func (f *taskFlags) bind(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.description, "description", "", "Task description")
	cmd.Flags().Int64Var(&f.categoryID, "category", 0, "Category id")
	cmd.Flags().StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end", "", "End date (YYYY-MM-DD)")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "Status: todo, in-progress or completed")
	}
}

func newTasksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(opts),
		&cobra.Command{
			Use:   "get [id]",
			Short: "Show one task",
			Args:  cobra.ExactArgs(1),
			RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				t, err := c.Tasks.GetTask(cmd.Context(), id)
				if err != nil {
					return userError(err)
				}
				return printer{w: cmd.OutOrStdout(), format: opts.output}.print(t, taskHeader, [][]string{taskRow(*t)})
			}),
		},
		newTaskCreateCmd(opts),
		newTaskUpdateCmd(opts),
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Delete a task",
			Args:  cobra.ExactArgs(1),
			RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := c.Tasks.DeleteTask(cmd.Context(), id); err != nil {
					return userError(err)
				}
				return printer{w: cmd.OutOrStdout(), format: opts.output}.message(fmt.Sprintf("task %d deleted", id), nil)
			}),
		},
	)
	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
			filter, err := task.ParseFilter(status)
			if err != nil {
				return err
			}
			tasks, err := c.Tasks.GetTasks(cmd.Context())
			if err != nil {
				return userError(err)
			}
			tasks = task.FilterByStatus(tasks, filter)

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, taskRow(t))
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.print(tasks, taskHeader, rows)
		}),
	}
	cmd.Flags().StringVar(&status, "status", "all", "Only show tasks with this status: all, todo, in-progress or completed")
	return cmd
}

func newTaskCreateCmd(opts *rootOptions) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
			if f.title == "" || f.categoryID == 0 {
				return fmt.Errorf("--title and --category are required")
			}
			t, err := c.Tasks.CreateTask(cmd.Context(), &task.CreateTaskData{
				Title:       f.title,
				Description: f.description,
				CategoryID:  f.categoryID,
				StartDate:   f.startDate,
				EndDate:     f.endDate,
			})
			if err != nil {
				return userError(err)
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.print(t, taskHeader, [][]string{taskRow(*t)})
		}),
	}
	f.bind(cmd, false)
	return cmd
}

// update starts from the current task so unset flags keep their values.
func newTaskUpdateCmd(opts *rootOptions) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := c.Tasks.GetTask(cmd.Context(), id)
			if err != nil {
				return userError(err)
			}

			req := &task.UpdateTaskData{
				ID:          id,
				Title:       cur.Title,
				Description: cur.Description,
				Status:      cur.Status,
				CategoryID:  cur.CategoryID,
				StartDate:   cur.StartDate,
				EndDate:     cur.EndDate,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				req.Title = f.title
			}
			if flags.Changed("description") {
				req.Description = f.description
			}
			if flags.Changed("category") {
				req.CategoryID = f.categoryID
			}
			if flags.Changed("start") {
				req.StartDate = f.startDate
			}
			if flags.Changed("end") {
				req.EndDate = f.endDate
			}
			if flags.Changed("status") {
				if req.Status, err = task.ParseStatus(f.status); err != nil {
					return err
				}
			}

			t, err := c.Tasks.UpdateTask(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.print(t, taskHeader, [][]string{taskRow(*t)})
		}),
	}
	f.bind(cmd, true)
	return cmd
}

var taskHeader = []string{"ID", "TITLE", "STATUS", "CATEGORY", "START", "END"}

func taskRow(t task.Task) []string {
	cat := t.CategoryName
	if cat == "" {
		cat = strconv.FormatInt(t.CategoryID, 10)
	}
	return []string{strconv.FormatInt(t.ID, 10), t.Title, t.Status.Label(), cat, t.StartDate, t.EndDate}
}

type authedRunE func(cmd *cobra.Command, c *app.Container, args []string) error

// withAuth runs fn behind the signed-in guard.
func withAuth(opts *rootOptions, fn authedRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd, opts, middleware.GuardAuth)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(cmd, c, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
