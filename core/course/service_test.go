package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/tests"
)

func TestService_UpdateSyllabus(t *testing.T) {
	ctx := context.Background()
	env := testutil.Setup(t)
	ada := env.CreateUser(t, "ada")
	svc := env.Services.Courses

	crs, err := svc.Create(ctx, ada.ID, course.NewCourse{Name: " Biology "})
	require.NoError(t, err)
	assert.Equal(t, "Biology", crs.Name)
	assert.Nil(t, crs.Syllabus)

	tests := []struct {
		name     string
		syllabus *course.Syllabus
		wantErr  error
	}{
		{name: "chapter without id", syllabus: &course.Syllabus{Chapters: []course.Chapter{{Title: "C"}}}, wantErr: course.ErrInvalidSyllabus},
		{name: "topic without id", syllabus: &course.Syllabus{Chapters: []course.Chapter{{ID: "c", Title: "C", Topics: []course.Topic{{Title: "T"}}}}}, wantErr: course.ErrInvalidSyllabus},
		{name: "blank chapter", syllabus: &course.Syllabus{Chapters: []course.Chapter{{ID: "c", Title: " "}}}, wantErr: course.ErrBlankTitle},
		{name: "blank topic", syllabus: &course.Syllabus{Chapters: []course.Chapter{{ID: "c", Title: "C", Topics: []course.Topic{{ID: "t"}}}}}, wantErr: course.ErrBlankTitle},
		{name: "valid", syllabus: &course.Syllabus{Chapters: []course.Chapter{{ID: "c", Title: "C", Topics: []course.Topic{{ID: "t", Title: "T"}}}}}},
		{name: "cleared", syllabus: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UpdateSyllabus(ctx, crs.ID, tt.syllabus)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.syllabus, got.Syllabus)
		})
	}

	_, err = svc.UpdateSyllabus(ctx, "unknown", nil)
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestService_EditSyllabus(t *testing.T) {
	ctx := context.Background()
	env := testutil.Setup(t)
	ada := env.CreateUser(t, "ada")
	svc := env.Services.Courses

	crs, err := svc.Create(ctx, ada.ID, course.NewCourse{Name: "Biology"})
	require.NoError(t, err)

	var chID string
	crs, err = svc.EditSyllabus(ctx, crs.ID, func(s *course.Syllabus) error {
		ch, err := s.AddChapter("Cells")
		chID = ch.ID
		return err
	})
	require.NoError(t, err)
	require.Len(t, crs.Syllabus.Chapters, 1)

	// last write wins: a stale copy replaces the newer syllabus wholesale
	stale := crs.Syllabus.Clone()
	_, err = svc.EditSyllabus(ctx, crs.ID, func(s *course.Syllabus) error {
		_, err := s.AddTopic(chID, "Mitosis")
		return err
	})
	require.NoError(t, err)
	crs, err = svc.UpdateSyllabus(ctx, crs.ID, stale)
	require.NoError(t, err)
	assert.Empty(t, crs.Syllabus.Chapters[0].Topics)

	_, err = svc.EditSyllabus(ctx, crs.ID, func(s *course.Syllabus) error {
		return s.DeleteChapter("lol")
	})
	assert.ErrorIs(t, err, course.ErrChapterNotFound)
}
