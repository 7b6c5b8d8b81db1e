package course

import (
	"errors"

	"github.com/google/uuid"

	"github.com/trezcool/studybuddy/core"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrTopicNotFound   = errors.New("topic not found")
	ErrBlankTitle      = errors.New("title cannot be blank")
	ErrInvalidSyllabus = errors.New("every chapter and topic needs an id")
)

func (s *Syllabus) chapterIndex(chapterID string) (int, error) {
	for i, ch := range s.Chapters {
		if ch.ID == chapterID {
			return i, nil
		}
	}
	return -1, ErrChapterNotFound
}

func (s *Syllabus) topicIndex(chapterID, topicID string) (int, int, error) {
	ci, err := s.chapterIndex(chapterID)
	if err != nil {
		return -1, -1, err
	}
	for ti, tp := range s.Chapters[ci].Topics {
		if tp.ID == topicID {
			return ci, ti, nil
		}
	}
	return ci, -1, ErrTopicNotFound
}

// Locate checks that the chapter, and the topic when given, exist in the syllabus.
func (s *Syllabus) Locate(chapterID, topicID string) error {
	if s == nil {
		return ErrChapterNotFound
	}
	if topicID == "" {
		_, err := s.chapterIndex(chapterID)
		return err
	}
	_, _, err := s.topicIndex(chapterID, topicID)
	return err
}

func cleanTitle(title string) (string, error) {
	title = core.CleanString(title)
	if title == "" {
		return "", ErrBlankTitle
	}
	return title, nil
}

// AddChapter appends a new chapter.
func (s *Syllabus) AddChapter(title string) (Chapter, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return Chapter{}, err
	}
	ch := Chapter{ID: uuid.NewString(), Title: title, Topics: []Topic{}}
	s.Chapters = append(s.Chapters, ch)
	return ch, nil
}

func (s *Syllabus) RenameChapter(chapterID, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	ci, err := s.chapterIndex(chapterID)
	if err != nil {
		return err
	}
	s.Chapters[ci].Title = title
	return nil
}

// DeleteChapter removes the chapter and all its topics.
func (s *Syllabus) DeleteChapter(chapterID string) error {
	ci, err := s.chapterIndex(chapterID)
	if err != nil {
		return err
	}
	s.Chapters = append(s.Chapters[:ci], s.Chapters[ci+1:]...)
	return nil
}

// AddTopic appends a new, incomplete topic to the chapter.
func (s *Syllabus) AddTopic(chapterID, title string) (Topic, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return Topic{}, err
	}
	ci, err := s.chapterIndex(chapterID)
	if err != nil {
		return Topic{}, err
	}
	tp := Topic{ID: uuid.NewString(), Title: title}
	s.Chapters[ci].Topics = append(s.Chapters[ci].Topics, tp)
	return tp, nil
}

func (s *Syllabus) RenameTopic(chapterID, topicID, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	ci, ti, err := s.topicIndex(chapterID, topicID)
	if err != nil {
		return err
	}
	s.Chapters[ci].Topics[ti].Title = title
	return nil
}

func (s *Syllabus) DeleteTopic(chapterID, topicID string) error {
	ci, ti, err := s.topicIndex(chapterID, topicID)
	if err != nil {
		return err
	}
	topics := s.Chapters[ci].Topics
	s.Chapters[ci].Topics = append(topics[:ti], topics[ti+1:]...)
	return nil
}

// ToggleTopic flips the completion flag of the topic and returns its new value.
func (s *Syllabus) ToggleTopic(chapterID, topicID string) (bool, error) {
	ci, ti, err := s.topicIndex(chapterID, topicID)
	if err != nil {
		return false, err
	}
	tp := &s.Chapters[ci].Topics[ti]
	tp.Completed = !tp.Completed
	return tp.Completed, nil
}

// Progress returns the number of completed topics and the total number of topics.
func (s *Syllabus) Progress() (completed, total int) {
	if s == nil {
		return 0, 0
	}
	for _, ch := range s.Chapters {
		for _, tp := range ch.Topics {
			total++
			if tp.Completed {
				completed++
			}
		}
	}
	return completed, total
}

// Percent is Progress as a rounded percentage (0 when there are no topics).
func (s *Syllabus) Percent() int {
	completed, total := s.Progress()
	if total == 0 {
		return 0
	}
	return (completed*100 + total/2) / total
}
