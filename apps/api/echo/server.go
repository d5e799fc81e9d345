package echoapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strconv"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Verifier   Verifier
		Oracle     *auth.Oracle
		Gate       *gate.Gate

		AcademicSvc     *academic.Service
		MarkSvc         *mark.Service
		AttendanceSvc   *attendance.Service
		AssignmentSvc   *assignment.Service
		AnnouncementSvc *announcement.Service
		TestSvc         *mcq.Service
		UserSvc         *user.Service
		NotificationSvc *notification.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		addr     string
		shutdown chan os.Signal
		deps     *Deps
		app      *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, shutdown chan os.Signal, deps *Deps) Server {
	s := &server{
		addr:     addr,
		shutdown: shutdown,
		deps:     deps,
		app:      echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit(bodyLimit(conf)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api", authMiddleware(s.deps.Verifier, s.deps.Oracle))

	registerMeAPI(api, s.deps.UserSvc)
	registerClassAPI(api, s.deps.AcademicSvc)
	registerMarkAPI(api, s.deps.MarkSvc)
	registerAttendanceAPI(api, s.deps.AttendanceSvc)
	registerAnnouncementAPI(api, s.deps.AnnouncementSvc)
	registerAssignmentAPI(api, s.deps.AssignmentSvc)
	registerTestAPI(api, s.deps.TestSvc)
	registerAdminAPI(api, s.deps.AcademicSvc, s.deps.UserSvc)
	registerNotificationAPI(api, s.deps.NotificationSvc, s.deps.Gate)
}

// bodyLimit returns the configured limit, or one fitting the largest submission file once base64 encoded,
// with 1M left for the rest of the request.
func bodyLimit(conf *core.Config) string {
	if conf.Server.BodyLimit != "" {
		return conf.Server.BodyLimit
	}
	return strconv.Itoa(base64.StdEncoding.EncodedLen(assignment.MaxFileSize) + 1<<20)
}

func (s *server) signalShutdown() {
	if s.shutdown != nil {
		s.shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Campus API!")
}
