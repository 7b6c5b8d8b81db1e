package backend

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/journal"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
)

type (
	// Repositories are the storage implementations behind the services.
	Repositories struct {
		Users        user.Repository
		Courses      course.Repository
		Documents    document.Repository
		Tasks        task.Repository
		Notes        note.Repository
		Flashcards   flashcard.Repository
		Journal      journal.Repository
		VoiceScripts voicescript.Repository
	}

	Deps struct {
		Repos     Repositories
		Sessions  user.SessionStore
		Blobs     document.BlobStore
		Extractor document.Extractor
		Mail      core.EmailService
		Validate  *validator.Validate
		Logger    core.Logger
		Conf      *core.Config
	}

	Services struct {
		Users        *user.Service
		Courses      *course.Service
		Documents    *document.Service
		Tasks        *task.Service
		Notes        *note.Service
		Flashcards   *flashcard.Service
		Journal      *journal.Service
		VoiceScripts *voicescript.Service
	}
)

func NewServices(deps Deps) *Services {
	return &Services{
		Users:        user.NewService(deps.Repos.Users, deps.Sessions, deps.Mail, deps.Validate, deps.Conf),
		Courses:      course.NewService(deps.Repos.Courses, deps.Validate),
		Documents:    document.NewService(deps.Repos.Documents, deps.Blobs, deps.Extractor, deps.Validate, deps.Logger),
		Tasks:        task.NewService(deps.Repos.Tasks, deps.Validate),
		Notes:        note.NewService(deps.Repos.Notes, deps.Validate),
		Flashcards:   flashcard.NewService(deps.Repos.Flashcards, deps.Validate),
		Journal:      journal.NewService(deps.Repos.Journal, deps.Validate),
		VoiceScripts: voicescript.NewService(deps.Repos.VoiceScripts, deps.Validate),
	}
}

// NewValidator returns a validator with every custom tag of the domain registered,
// and the translator for its messages.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	task.InitValidators(validate, translator)
	journal.InitValidators(validate, translator)
	document.InitValidators(validate, translator)
	return validate, translator
}
