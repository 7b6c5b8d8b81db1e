package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/user"
	logsvc "github.com/trezcool/studybuddy/services/logger"
	"github.com/trezcool/studybuddy/storage/database"
	sqlxrepos "github.com/trezcool/studybuddy/storage/database/sqlx"
	memsession "github.com/trezcool/studybuddy/storage/session/memory"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	rlogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer rlogger.Close()
	logger = rlogger

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.PingContext(context.Background()))

	validate, _ := backend.NewValidator()

	// start CLI (no welcome mails, sessions are never issued from here)
	cli := commandLine{
		db: db,
		usrSvc: user.NewService(
			sqlxrepos.NewUserRepository(db),
			memsession.NewStore(conf.Session.TTL),
			nil,
			validate,
			conf,
		),
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Printf("\nerror: %s\n", err)
		}
		rlogger.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
