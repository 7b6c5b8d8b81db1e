package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/services/ai"
)

type sourceFlags struct {
	topic, content, documentID string
}

func (sf *sourceFlags) register(cmd *cobra.Command, withTopic bool) {
	if withTopic {
		cmd.Flags().StringVar(&sf.topic, "topic", "", "Generate from a topic")
	}
	cmd.Flags().StringVar(&sf.content, "content", "", "Generate from this text")
	cmd.Flags().StringVar(&sf.documentID, "document", "", "Generate from a processed document")
}

// input resolves the flags into generation input; a document is read for its content.
func (sf *sourceFlags) input(cmd *cobra.Command, a *app) (ai.GenerationInput, error) {
	in := ai.GenerationInput{Topic: sf.topic, Content: sf.content}
	if sf.documentID != "" {
		if in.Content != "" || in.Topic != "" {
			return in, ai.ErrInvalidInput
		}
		content, err := a.documentContent(cmd.Context(), sf.documentID)
		if err != nil {
			return in, err
		}
		in.Content = content
	}
	if (strings.TrimSpace(in.Topic) == "") == (strings.TrimSpace(in.Content) == "") {
		return in, ai.ErrInvalidInput
	}
	return in, nil
}

func newFlashcardsCmd(c *cli) *cobra.Command {
	var (
		src     sourceFlags
		save    bool
		shuffle bool
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "flashcards",
		Short: "Generate flashcards from a topic, some text or a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			in, err := src.input(cmd, a)
			if err != nil {
				return err
			}
			cards, err := a.ai.GenerateFlashcards(cmd.Context(), in)
			if err != nil {
				return err
			}
			deck, err := flashcard.NewDeck(cards)
			if err != nil {
				return err
			}
			if shuffle {
				deck.Shuffle(rand.New(rand.NewSource(seed)))
			}

			out := cmd.OutOrStdout()
			for i := 0; i < len(cards); i++ {
				pos, total := deck.Position()
				printf(out, "%d/%d  Q: %s\n", pos, total, deck.Side())
				deck.Flip()
				printf(out, "      A: %s\n", deck.Side())
				deck.Next()
			}

			if save {
				var docID *string
				if src.documentID != "" {
					docID = &src.documentID
				}
				saved, err := a.client.SaveFlashcards(cmd.Context(), a.userID(), docID, cards).Unwrap()
				if err != nil {
					return err
				}
				printf(out, "saved %d flashcard(s)\n", len(saved))
			}
			return nil
		},
	}
	src.register(cmd, true)
	cmd.Flags().BoolVar(&save, "save", false, "Save the generated cards")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the cards")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Shuffle seed")
	return cmd
}

func newQuizCmd(c *cli) *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a quiz from some text or a document, then take it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			in, err := src.input(cmd, a)
			if err != nil {
				return err
			}
			questions, err := a.ai.GenerateQuiz(cmd.Context(), in.Content)
			if err != nil {
				return err
			}
			if err = quiz.Validate(questions); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			answers := askQuestions(cmd, questions)
			score := quiz.Grade(questions, answers)
			printf(out, "\nScore: %d/%d (%d%%)\n", score.Correct, score.Graded, score.Percent())
			for _, i := range score.Wrong {
				printf(out, "  Q%d: expected %q\n", i+1, questions[i].Answer)
			}
			for _, i := range score.Review {
				printf(out, "  Q%d (self review): %s\n", i+1, questions[i].Answer)
			}
			return nil
		},
	}
	src.register(cmd, false)
	return cmd
}

// askQuestions prints each question and reads one answer per line. A multiple-choice answer
// may be given by its option number.
func askQuestions(cmd *cobra.Command, questions []quiz.Question) map[int]string {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	answers := make(map[int]string, len(questions))
	for i, q := range questions {
		printf(out, "\nQ%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			printf(out, "  %d) %s\n", j+1, opt)
		}
		printf(out, "> ")
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}
		if answer != "" {
			answers[i] = answer
		}
	}
	return answers
}

func newAskCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the study assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			printf(cmd.OutOrStdout(), "%s\n", a.ai.Ask(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func newDocumentAICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "document-ai ACTION DOCUMENT_ID",
		Short: fmt.Sprintf("Run an AI action (%s) on a processed document", strings.Join(document.Actions, ", ")),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			action, err := document.ParseAction(args[0])
			if err != nil {
				return err
			}
			doc, err := a.client.GetDocument(cmd.Context(), args[1]).Unwrap()
			if err != nil {
				return err
			}
			a.store.FetchDocuments(cmd.Context(), doc.CourseID)
			if err = a.check(); err != nil {
				return err
			}
			result, err := a.store.RunDocumentAction(cmd.Context(), doc.ID, action)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", result)
			return nil
		},
	}
}
