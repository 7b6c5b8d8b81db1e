package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/studybuddy/core/calendar"
	"github.com/trezcool/studybuddy/core/task"
)

const dateLayout = "2006-01-02"

func newTasksCmd(c *cli) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			printTasks(cmd, a.store.Snapshot().Tasks)
			return nil
		},
	}

	var (
		due, priority, taskType, courseID, description string
	)
	addCmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			dueDate, err := time.Parse(dateLayout, due)
			if err != nil {
				return errors.Wrapf(err, "--due must be a date (%s)", dateLayout)
			}
			nt := task.NewTask{
				Title:       args[0],
				Description: description,
				DueDate:     dueDate.UTC(),
				Priority:    task.Priority(priority),
				Type:        task.Type(taskType),
			}
			if courseID != "" {
				nt.CourseID = &courseID
			}
			a.store.CreateTask(cmd.Context(), nt)
			if err = a.check(); err != nil {
				return err
			}
			tsk := a.store.Snapshot().Tasks[0]
			printf(cmd.OutOrStdout(), "created task %s (%s)\n", tsk.Title, tsk.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&due, "due", "", "Due date ("+dateLayout+")")
	addCmd.Flags().StringVar(&priority, "priority", string(task.PriorityMedium), "low, medium or high")
	addCmd.Flags().StringVar(&taskType, "type", string(task.TypeOther), "assignment, exam, study, revision or other")
	addCmd.Flags().StringVar(&courseID, "course", "", "Course ID")
	addCmd.Flags().StringVar(&description, "description", "", "Task description")
	_ = addCmd.MarkFlagRequired("due")

	toggleCmd := &cobra.Command{
		Use:   "toggle TASK_ID",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			a.store.ToggleTaskStatus(cmd.Context(), args[0])
			if err := a.check(); err != nil {
				return err
			}
			for _, tsk := range a.store.Snapshot().Tasks {
				if tsk.ID == args[0] {
					printf(cmd.OutOrStdout(), "%s is now %s\n", tsk.Title, tsk.Status)
				}
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			a.store.DeleteTask(cmd.Context(), args[0])
			return a.check()
		},
	}

	var (
		limit int
		add   bool
	)
	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest topics to revise, optionally adding them as tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			out := cmd.OutOrStdout()
			recs := a.store.Recommendations(limit)
			if len(recs) == 0 {
				printf(out, "Nothing to revise.\n")
				return nil
			}
			for _, rec := range recs {
				printf(out, "%s / %s / %s  [%s] %s\n", rec.CourseName, rec.ChapterTitle, rec.TopicTitle, rec.Priority, rec.Reason)
				if add {
					a.store.AddRecommendationToTodo(cmd.Context(), rec)
					if err := a.check(); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	recommendCmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of recommendations")
	recommendCmd.Flags().BoolVar(&add, "add", false, "Add the recommendations to the task list")

	tasksCmd.AddCommand(addCmd, toggleCmd, deleteCmd, recommendCmd)
	return tasksCmd
}

func newExportICSCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export tasks as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ics := calendar.Export(a.store.Snapshot().Tasks, a.now())
			if outPath == "" || outPath == "-" {
				printf(cmd.OutOrStdout(), "%s", ics)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(ics), 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", outPath)
			}
			printf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", calendar.FileName, `Output file ("-" for stdout)`)
	return cmd
}

func printTasks(cmd *cobra.Command, tasks []task.Task) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		printf(out, "No tasks.\n")
		return
	}
	for _, tsk := range tasks {
		mark := " "
		if tsk.Status == task.StatusCompleted {
			mark = "x"
		}
		printf(out, "[%s] %s  %s  due %s  %s/%s\n",
			mark, tsk.ID, tsk.Title, tsk.DueDate.Format(dateLayout), tsk.Priority, tsk.Type)
	}
}
