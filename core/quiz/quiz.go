// Package quiz checks generated quiz questions and scores a user's answers.
package quiz

import (
	"strings"

	"github.com/pkg/errors"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeOpen           QuestionType = "open"
)

var ErrEmptyQuiz = errors.New("no quiz questions")

type Question struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
}

// Validate checks that questions is a usable, non-empty quiz: every multiple-choice
// question has options and its answer is one of them.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return errors.Errorf("question %d: text is empty", i+1)
		}
		switch q.Type {
		case TypeMultipleChoice:
			if len(q.Options) < 2 {
				return errors.Errorf("question %d: multiple-choice needs at least 2 options", i+1)
			}
			if indexOf(q.Options, q.Answer) < 0 {
				return errors.Errorf("question %d: answer is not one of the options", i+1)
			}
		case TypeOpen:
		default:
			return errors.Errorf("question %d: unknown type %q", i+1, q.Type)
		}
	}
	return nil
}

func indexOf(options []string, answer string) int {
	for i, o := range options {
		if normalize(o) == normalize(answer) {
			return i
		}
	}
	return -1
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Score is the result of a quiz attempt.
// Open questions cannot be graded automatically and are listed for self review.
type Score struct {
	Correct int   `json:"correct"`
	Graded  int   `json:"graded"`
	Wrong   []int `json:"wrong"`  // indexes of wrong (or unanswered) multiple-choice questions
	Review  []int `json:"review"` // indexes of open questions
}

func (s Score) Percent() int {
	if s.Graded == 0 {
		return 0
	}
	return (s.Correct*100 + s.Graded/2) / s.Graded
}

// Grade scores answers (question index -> answer) against questions.
func Grade(questions []Question, answers map[int]string) Score {
	score := Score{Wrong: []int{}, Review: []int{}}
	for i, q := range questions {
		if q.Type == TypeOpen {
			score.Review = append(score.Review, i)
			continue
		}
		score.Graded++
		if a, ok := answers[i]; ok && normalize(a) == normalize(q.Answer) {
			score.Correct++
		} else {
			score.Wrong = append(score.Wrong, i)
		}
	}
	return score
}
