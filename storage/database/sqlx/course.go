package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
)

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) course.Repository {
	return &courseRepository{exec: exec}
}

const courseColumns = "id, user_id, name, description, syllabus, created_at, updated_at"

func (repo *courseRepository) QueryCourses(ctx context.Context, userID string) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.exec.SelectContext(ctx, &courses,
		"SELECT "+courseColumns+" FROM courses WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return courses, errors.Wrap(err, "selecting courses")
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var crs course.Course
	err := repo.exec.GetContext(ctx, &crs, "SELECT "+courseColumns+" FROM courses WHERE id = $1", id)
	return crs, notFound(err, course.ErrNotFound)
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES (:id, :user_id, :name, :description, :syllabus, :created_at, :updated_at)`, crs)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	var updated course.Course
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE courses SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+courseColumns, crs.Name, crs.Description, crs.UpdatedAt, crs.ID)
	return updated, notFound(err, course.ErrNotFound)
}

func (repo *courseRepository) UpdateSyllabus(ctx context.Context, id string, syllabus *course.Syllabus, updatedAt time.Time) (course.Course, error) {
	var updated course.Course
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE courses SET syllabus = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+courseColumns, syllabus, updatedAt, id)
	return updated, notFound(err, course.ErrNotFound)
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	return affected(res, err, course.ErrNotFound)
}
