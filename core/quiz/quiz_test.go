package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mc(q, answer string, options ...string) Question {
	return Question{Type: TypeMultipleChoice, Question: q, Options: options, Answer: answer}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{name: "empty", wantErr: ErrEmptyQuiz.Error()},
		{name: "blank question", questions: []Question{{Type: TypeOpen, Question: " "}}, wantErr: "question 1: text is empty"},
		{name: "too few options", questions: []Question{mc("Q?", "A", "A")}, wantErr: "question 1: multiple-choice needs at least 2 options"},
		{name: "answer not an option", questions: []Question{mc("Q?", "C", "A", "B")}, wantErr: "question 1: answer is not one of the options"},
		{name: "unknown type", questions: []Question{mc("Q?", "A", "A", "B"), {Type: "essay", Question: "Q?"}}, wantErr: `question 2: unknown type "essay"`},
		{name: "answer matched loosely", questions: []Question{mc("Q?", " the  MITOCHONDRIA", "Nucleus", "The mitochondria")}},
		{name: "open", questions: []Question{{Type: TypeOpen, Question: "Why?", Answer: "Because"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.questions)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestGrade(t *testing.T) {
	questions := []Question{
		mc("Powerhouse?", "Mitochondria", "Nucleus", "Mitochondria"),
		mc("Genes?", "DNA", "DNA", "ATP"),
		{Type: TypeOpen, Question: "Explain mitosis.", Answer: "Cell division"},
		mc("Energy?", "ATP", "DNA", "ATP"),
	}

	tests := []struct {
		name        string
		answers     map[int]string
		want        Score
		wantPercent int
	}{
		{
			name:        "no answers",
			want:        Score{Graded: 3, Wrong: []int{0, 1, 3}, Review: []int{2}},
			wantPercent: 0,
		},
		{
			name:        "some right",
			answers:     map[int]string{0: " mitochondria ", 1: "ATP", 2: "whatever"},
			want:        Score{Correct: 1, Graded: 3, Wrong: []int{1, 3}, Review: []int{2}},
			wantPercent: 33,
		},
		{
			name:        "all right",
			answers:     map[int]string{0: "Mitochondria", 1: "dna", 3: "ATP"},
			want:        Score{Correct: 3, Graded: 3, Wrong: []int{}, Review: []int{2}},
			wantPercent: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(questions, tt.answers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPercent, got.Percent())
		})
	}

	assert.Equal(t, 0, Grade([]Question{{Type: TypeOpen, Question: "Q"}}, nil).Percent())
}
