// Package reminder emails users their tasks: a scheduled digest of the tasks due soon, and
// the task calendar as an .ics attachment on demand.
package reminder

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/calendar"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
)

var NowFunc = time.Now // mockable

type Service struct {
	tasks  *task.Service
	users  *user.Service
	mail   core.EmailService
	logger core.Logger
	conf   *core.Config
	cron   *cron.Cron
}

func NewService(tasks *task.Service, users *user.Service, mail core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{tasks: tasks, users: users, mail: mail, logger: logger, conf: conf}
}

// Start schedules the digest on the configured cron spec (UTC).
func (svc *Service) Start() error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(svc.conf.Reminder.Spec, func() {
		if _, err := svc.SendDigests(context.Background()); err != nil {
			svc.logger.Error("reminder.SendDigests: "+err.Error(), err)
		}
	}); err != nil {
		return errors.Wrapf(err, "scheduling reminders %q", svc.conf.Reminder.Spec)
	}
	svc.cron = c
	c.Start()
	svc.logger.Info(fmt.Sprintf("reminders scheduled (%s)", svc.conf.Reminder.Spec))
	return nil
}

// Stop stops the scheduler; the returned context is done once a running digest has finished.
func (svc *Service) Stop() context.Context {
	if svc.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return svc.cron.Stop()
}

type digestData struct {
	Name  string
	Tasks []task.Task
}

// SendDigests emails every user with pending tasks due within the reminder window.
// A user that cannot be loaded is skipped.
func (svc *Service) SendDigests(ctx context.Context) (int, error) {
	now := NowFunc().UTC()
	due, err := svc.tasks.QueryDue(ctx, now, now.Add(svc.conf.Reminder.Window))
	if err != nil {
		return 0, err
	}

	byUser := make(map[string][]task.Task)
	var order []string
	for _, tsk := range due {
		if _, ok := byUser[tsk.UserID]; !ok {
			order = append(order, tsk.UserID)
		}
		byUser[tsk.UserID] = append(byUser[tsk.UserID], tsk)
	}

	messages := make([]*core.EmailMessage, 0, len(order))
	for _, userID := range order {
		usr, err := svc.users.GetByID(ctx, userID)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("reminder: loading user %s: %v", userID, err), err)
			continue
		}
		tasks := byUser[userID]
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      fmt.Sprintf("%d task(s) due soon", len(tasks)),
			TemplateName: "reminder",
			TemplateData: digestData{Name: usr.Name, Tasks: tasks},
		})
	}
	if len(messages) > 0 {
		svc.mail.SendMessages(messages...)
	}
	return len(messages), nil
}

type calendarData struct {
	Name      string
	Count     int
	WebcalURL string
}

// CalendarMessage builds the calendar email of usr, the tasks exported as an .ics attachment.
func CalendarMessage(usr user.User, tasks []task.Task, now time.Time, webcalBase string) (*core.EmailMessage, error) {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Your task calendar",
		TemplateName: "calendar",
		TemplateData: calendarData{
			Name:      usr.Name,
			Count:     len(tasks),
			WebcalURL: calendar.WebcalURL(webcalBase, usr.ID),
		},
	}
	ics := calendar.Export(tasks, now)
	if err := msg.Attach(strings.NewReader(ics), calendar.FileName, calendar.ContentType); err != nil {
		return nil, err
	}
	return msg, nil
}

// SendCalendar emails the user's task calendar.
func (svc *Service) SendCalendar(ctx context.Context, userID string) error {
	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	tasks, err := svc.tasks.Query(ctx, userID)
	if err != nil {
		return err
	}
	msg, err := CalendarMessage(usr, tasks, NowFunc().UTC(), svc.conf.WebcalBaseURL)
	if err != nil {
		return errors.Wrap(err, "building calendar email")
	}
	svc.mail.SendMessages(msg)
	return nil
}
