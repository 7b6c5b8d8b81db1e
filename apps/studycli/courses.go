package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/studybuddy/core/course"
)

func newCoursesCmd(c *cli) *cobra.Command {
	coursesCmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses with their syllabus progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			printCourses(cmd, a.store.Snapshot().Courses)
			return nil
		},
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			a.store.CreateCourse(cmd.Context(), course.NewCourse{Name: args[0], Description: description})
			if err := a.check(); err != nil {
				return err
			}
			crs := a.store.Snapshot().Courses[0]
			printf(cmd.OutOrStdout(), "created course %s (%s)\n", crs.Name, crs.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "Course description")

	showCmd := &cobra.Command{
		Use:   "show COURSE_ID",
		Short: "Show a course's syllabus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			a.store.SelectCourse(cmd.Context(), args[0])
			if err := a.check(); err != nil {
				return err
			}
			st := a.store.Snapshot()
			printSyllabus(cmd, *st.CurrentCourse)
			printf(cmd.OutOrStdout(), "%d document(s), %d note(s)\n", len(st.Documents), len(st.Notes))
			return nil
		},
	}

	chapterCmd := &cobra.Command{
		Use:   "add-chapter COURSE_ID TITLE",
		Short: "Append a chapter to a course's syllabus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSyllabus(cmd, c.app, args[0], func(s *course.Syllabus) error {
				_, err := s.AddChapter(args[1])
				return err
			})
		},
	}

	topicCmd := &cobra.Command{
		Use:   "add-topic COURSE_ID CHAPTER_ID TITLE",
		Short: "Append a topic to a chapter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSyllabus(cmd, c.app, args[0], func(s *course.Syllabus) error {
				_, err := s.AddTopic(args[1], args[2])
				return err
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle-topic COURSE_ID CHAPTER_ID TOPIC_ID",
		Short: "Mark a topic as completed (or not)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSyllabus(cmd, c.app, args[0], func(s *course.Syllabus) error {
				_, err := s.ToggleTopic(args[1], args[2])
				return err
			})
		},
	}

	coursesCmd.AddCommand(addCmd, showCmd, chapterCmd, topicCmd, toggleCmd)
	return coursesCmd
}

func editSyllabus(cmd *cobra.Command, a *app, courseID string, edit func(*course.Syllabus) error) error {
	a.store.EditSyllabus(cmd.Context(), courseID, edit)
	if err := a.check(); err != nil {
		return err
	}
	for _, crs := range a.store.Snapshot().Courses {
		if crs.ID == courseID {
			printSyllabus(cmd, crs)
		}
	}
	return nil
}

func printCourses(cmd *cobra.Command, courses []course.Course) {
	out := cmd.OutOrStdout()
	if len(courses) == 0 {
		printf(out, "No courses yet. Add one with: studycli courses add NAME\n")
		return
	}
	for _, crs := range courses {
		done, total := crs.Syllabus.Progress()
		printf(out, "%s  %s  %d/%d topics (%d%%)\n", crs.ID, crs.Name, done, total, crs.Syllabus.Percent())
	}
}

func printSyllabus(cmd *cobra.Command, crs course.Course) {
	out := cmd.OutOrStdout()
	printf(out, "%s (%s)\n", crs.Name, crs.ID)
	if crs.Syllabus == nil || len(crs.Syllabus.Chapters) == 0 {
		printf(out, "  no syllabus\n")
		return
	}
	for _, ch := range crs.Syllabus.Chapters {
		printf(out, "  %s  %s\n", ch.ID, ch.Title)
		for _, tp := range ch.Topics {
			mark := " "
			if tp.Completed {
				mark = "x"
			}
			printf(out, "    [%s] %s  %s\n", mark, tp.ID, tp.Title)
		}
	}
}
