package dig_container

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/announcement"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/mark"
	"github.com/trezcool/campus/core/mcq"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/core/user"
	blobsvc "github.com/trezcool/campus/services/blob"
	"github.com/trezcool/campus/services/identity"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/storage/database"
	sqlxrepos "github.com/trezcool/campus/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Translator ut.Translator
	Verifier   *identity.JWTVerifier
	Oracle     *auth.Oracle
	Gate       *gate.Gate
	Shutdown   chan os.Signal

	AcademicSvc     *academic.Service
	MarkSvc         *mark.Service
	AttendanceSvc   *attendance.Service
	AssignmentSvc   *assignment.Service
	AnnouncementSvc *announcement.Service
	TestSvc         *mcq.Service
	UserSvc         *user.Service
	NotificationSvc *notification.Service
}

func newLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("api"), conf)
}

func newDBLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("db"), conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	notification.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func newFanouter(svc *notification.Service) gate.Fanouter {
	return svc
}

func newAssignmentService(
	conf *core.Config,
	repo assignment.Repository,
	acadSvc *academic.Service,
	acadRepo academic.Repository,
	g *gate.Gate,
	store blobsvc.Store,
) *assignment.Service {
	return assignment.NewService(repo, acadSvc, acadRepo, g, store, conf.Storage.SubmissionsBucket)
}

func newUserService(conf *core.Config, repo user.Repository, g *gate.Gate, store blobsvc.Store) *user.Service {
	return user.NewService(repo, g, store, conf.Storage.AvatarsBucket)
}

// newShutdownChan listens for interrupt or terminate signals from the OS.
func newShutdownChan() chan os.Signal {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	return shutdown
}

func newServer(p serverParams) echoapi.Server {
	return echoapi.NewServer(p.Conf.Server.Address, p.Shutdown, &echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Translator: p.Translator,
		Verifier:   p.Verifier,
		Oracle:     p.Oracle,
		Gate:       p.Gate,

		AcademicSvc:     p.AcademicSvc,
		MarkSvc:         p.MarkSvc,
		AttendanceSvc:   p.AttendanceSvc,
		AssignmentSvc:   p.AssignmentSvc,
		AnnouncementSvc: p.AnnouncementSvc,
		TestSvc:         p.TestSvc,
		UserSvc:         p.UserSvc,
		NotificationSvc: p.NotificationSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	// ambient
	must(c.Provide(core.NewConfig))
	must(c.Provide(logsvc.NewZap))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newValidator))
	must(c.Provide(newShutdownChan))

	// adapters
	must(c.Provide(identity.NewJWTVerifier))
	must(c.Provide(blobsvc.NewStore))
	must(c.Provide(sqlxrepos.NewAuthRepository))
	must(c.Provide(sqlxrepos.NewAcademicRepository))
	must(c.Provide(sqlxrepos.NewMarkRepository))
	must(c.Provide(sqlxrepos.NewAttendanceRepository))
	must(c.Provide(sqlxrepos.NewAssignmentRepository))
	must(c.Provide(sqlxrepos.NewAnnouncementRepository))
	must(c.Provide(sqlxrepos.NewMCQRepository))
	must(c.Provide(sqlxrepos.NewUserRepository))
	must(c.Provide(sqlxrepos.NewNotificationRepository))

	// core
	must(c.Provide(auth.NewOracle))
	must(c.Provide(notification.NewService))
	must(c.Provide(newFanouter))
	must(c.Provide(gate.New))
	must(c.Provide(academic.NewService))
	must(c.Provide(mark.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(newAssignmentService))
	must(c.Provide(announcement.NewService))
	must(c.Provide(mcq.NewService))
	must(c.Provide(newUserService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
