package testutil

import (
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

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
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
)

// App holds every service of the API wired on top of an in-memory store.
type App struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Blob       *blobsvc.MemoryStore
	Logs       *observer.ObservedLogs
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Verifier   *identity.JWTVerifier
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

func NewConfig() *core.Config {
	return &core.Config{
		TestMode: true,
		Env:      "TEST",
		Build:    "test",
		AppName:  "Campus",
		Server:   core.ServerConfig{DisableReqLogs: true},
		Auth:     core.AuthConfig{JWTSecret: "test-secret-with-at-least-32-characters", Issuer: "campus-test"},
		Storage:  core.StorageConfig{SubmissionsBucket: "assignment-submissions", AvatarsBucket: "profile-photos"},
	}
}

// NewValidator returns a validator with every custom tag registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	notification.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func NewApp() *App {
	conf := NewConfig()
	db := inmemdb.New()
	store := blobsvc.NewMemoryStore()

	zcore, logs := observer.New(zapcore.DebugLevel)
	logger := logsvc.NewRollbarLogger(zap.New(zcore), conf)

	validate, translator := NewValidator()

	oracle := auth.NewOracle(inmemdb.NewAuthRepository(db))
	notifSvc := notification.NewService(inmemdb.NewNotificationRepository(db), logger)
	g := gate.New(oracle, validate, notifSvc)

	acadRepo := inmemdb.NewAcademicRepository(db)
	acadSvc := academic.NewService(acadRepo, g)

	return &App{
		Conf:       conf,
		DB:         db,
		Blob:       store,
		Logs:       logs,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Verifier:   identity.NewJWTVerifier(conf),
		Oracle:     oracle,
		Gate:       g,

		AcademicSvc:     acadSvc,
		MarkSvc:         mark.NewService(inmemdb.NewMarkRepository(db), acadRepo, g),
		AttendanceSvc:   attendance.NewService(inmemdb.NewAttendanceRepository(db), acadRepo, g),
		AssignmentSvc:   assignment.NewService(inmemdb.NewAssignmentRepository(db), acadSvc, acadRepo, g, store, conf.Storage.SubmissionsBucket),
		AnnouncementSvc: announcement.NewService(inmemdb.NewAnnouncementRepository(db), acadSvc, acadRepo, g),
		TestSvc:         mcq.NewService(inmemdb.NewMCQRepository(db), acadRepo, g),
		UserSvc:         user.NewService(inmemdb.NewUserRepository(db), g, store, conf.Storage.AvatarsBucket),
		NotificationSvc: notifSvc,
	}
}

// Seeding

// CreateUser adds an account. An empty role leaves the account without a role row.
func CreateUser(db *inmemdb.DB, name, email string, role auth.Role) user.Profile {
	prof := user.Profile{
		UserID:    uuid.New().String(),
		Email:     strings.ToLower(email),
		FullName:  name,
		Role:      null.NewString(role.String(), role != ""),
		CreatedAt: time.Now().UTC(),
	}
	db.AddProfile(prof)
	return prof
}

func CreateClass(db *inmemdb.DB, name string, teachers ...user.Profile) academic.Class {
	class := academic.Class{
		ID:           uuid.New().String(),
		Name:         name,
		Section:      "A",
		AcademicYear: "2026-2027",
		CreatedAt:    time.Now().UTC(),
	}
	db.AddClass(class)
	for _, t := range teachers {
		db.AssignTeacher(class.ID, t.UserID)
	}
	return class
}

// CreateStudent adds a roster row without any account.
func CreateStudent(db *inmemdb.DB, name, email string) academic.Student {
	s := academic.Student{
		ID:         uuid.New().String(),
		FullName:   name,
		Email:      strings.ToLower(email),
		RollNumber: "R-" + uuid.New().String()[:8],
	}
	db.AddStudent(s)
	return s
}

// CreateStudentWithAccount adds a student account and its roster row, sharing the same email.
func CreateStudentWithAccount(db *inmemdb.DB, name, email string) (user.Profile, academic.Student) {
	return CreateUser(db, name, email, auth.RoleStudent), CreateStudent(db, name, email)
}

func Enroll(db *inmemdb.DB, class academic.Class, students ...academic.Student) {
	for _, s := range students {
		db.Enroll(academic.Enrollment{
			ID:         uuid.New().String(),
			StudentID:  s.ID,
			ClassID:    class.ID,
			EnrolledAt: time.Now().UTC(),
		})
	}
}

func CreateSubject(db *inmemdb.DB, class academic.Class, name string) academic.Subject {
	s := academic.Subject{
		ID:      uuid.New().String(),
		ClassID: class.ID,
		Name:    name,
		Code:    strings.ToUpper(name),
	}
	db.AddSubject(s)
	return s
}

func CreateExam(db *inmemdb.DB, subject academic.Subject, name string, maxMarks float64) academic.Exam {
	e := academic.Exam{
		ID:        uuid.New().String(),
		ClassID:   subject.ClassID,
		SubjectID: subject.ID,
		Name:      name,
		MaxMarks:  maxMarks,
		ExamDate:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	db.AddExam(e)
	return e
}

// Principal returns the principal the API resolves for prof.
func Principal(prof user.Profile) auth.Principal {
	role, _ := prof.RoleOf()
	return auth.Principal{UserID: prof.UserID, Email: prof.Email, Role: role}
}

// Token mints a bearer token for prof, as the identity provider would.
func Token(t *testing.T, verifier *identity.JWTVerifier, prof user.Profile) string {
	token, err := verifier.Sign(auth.Identity{UserID: prof.UserID, Email: prof.Email}, time.Hour)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}
