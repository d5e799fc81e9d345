package gate_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
	"github.com/trezcool/campus/tests"
)

type fanoutCall struct {
	audience string
	msg      notification.Message
}

type recordingFanouter struct {
	calls []fanoutCall
	err   error
}

func (f *recordingFanouter) Fanout(_ context.Context, audience notification.Audience, msg notification.Message) notification.Result {
	f.calls = append(f.calls, fanoutCall{audience: audience.String(), msg: msg})
	return notification.Result{Audience: audience.String(), Err: f.err}
}

func (f *recordingFanouter) FanoutEach(_ context.Context, msgs []notification.Personal) notification.Result {
	for _, m := range msgs {
		f.calls = append(f.calls, fanoutCall{audience: notification.ToStudents(m.StudentID).String(), msg: m.Message})
	}
	return notification.Result{Err: f.err}
}

type input struct {
	Title string `json:"title" validate:"required"`
}

type fixture struct {
	g        *gate.Gate
	fanout   *recordingFanouter
	admin    auth.Principal
	teacher  auth.Principal
	outsider auth.Principal
	student  auth.Principal
	classID  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.New()
	validate, _ := testutil.NewValidator()
	fanout := &recordingFanouter{}

	teacher := testutil.CreateUser(db, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(db, "Grade 1", teacher)

	return fixture{
		g:        gate.New(auth.NewOracle(inmemdb.NewAuthRepository(db)), validate, fanout),
		fanout:   fanout,
		admin:    testutil.Principal(testutil.CreateUser(db, "Admin", "admin@test.cd", auth.RoleAdmin)),
		teacher:  testutil.Principal(teacher),
		outsider: testutil.Principal(testutil.CreateUser(db, "Outsider", "outsider@test.cd", auth.RoleTeacher)),
		student:  testutil.Principal(testutil.CreateUser(db, "Student", "student@test.cd", auth.RoleStudent)),
		classID:  class.ID,
	}
}

// mutation records the stages it went through.
func (f fixture) mutation(in *input, stages *[]string) gate.Mutation[string] {
	track := func(name string) { *stages = append(*stages, name) }
	return gate.Mutation[string]{
		Op:    auth.OpCreateAnnouncement,
		Input: in,
		Validate: func() error {
			track("validate")
			return nil
		},
		Class: func(context.Context) (string, error) {
			track("class")
			return f.classID, nil
		},
		Authorize: func(context.Context) error {
			track("authorize")
			return nil
		},
		Check: func(context.Context) error {
			track("check")
			return nil
		},
		Persist: func(context.Context) (string, error) {
			track("persist")
			return in.Title, nil
		},
		Notify: func(title string) []gate.Notice {
			track("notify")
			return []gate.Notice{{
				Audience: notification.ToClassStudents(f.classID),
				Message:  notification.Message{Title: title, Type: notification.TypeAnnouncement},
			}}
		},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every stage in order", func(t *testing.T) {
		f := newFixture(t)
		var stages []string

		got, err := gate.Run(ctx, f.g, f.teacher, f.mutation(&input{Title: "Trip"}, &stages))
		require.NoError(t, err)
		assert.Equal(t, "Trip", got)
		assert.Equal(t, []string{"validate", "class", "authorize", "check", "persist", "notify"}, stages)
		if assert.Len(t, f.fanout.calls, 1) {
			assert.Equal(t, "class:"+f.classID, f.fanout.calls[0].audience)
			assert.Equal(t, "Trip", f.fanout.calls[0].msg.Title)
		}
	})

	t.Run("invalid input wins over a forbidden role", func(t *testing.T) {
		f := newFixture(t)
		var stages []string

		_, err := gate.Run(ctx, f.g, f.student, f.mutation(&input{}, &stages))
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs))
		assert.Empty(t, stages)
		assert.Empty(t, f.fanout.calls)
	})

	t.Run("role not allowed", func(t *testing.T) {
		f := newFixture(t)
		var stages []string

		_, err := gate.Run(ctx, f.g, f.student, f.mutation(&input{Title: "Trip"}, &stages))
		require.Error(t, err)
		assert.True(t, core.IsForbidden(err))
		assert.Equal(t, `role "student" is not allowed to createAnnouncement`, err.Error())
		assert.Equal(t, []string{"validate"}, stages)
		assert.Empty(t, f.fanout.calls)
	})

	t.Run("class not owned", func(t *testing.T) {
		f := newFixture(t)
		var stages []string

		_, err := gate.Run(ctx, f.g, f.outsider, f.mutation(&input{Title: "Trip"}, &stages))
		require.Error(t, err)
		assert.Equal(t, "you are not assigned to this class", err.Error())
		assert.Equal(t, []string{"validate", "class"}, stages)
	})

	t.Run("admins bypass ownership", func(t *testing.T) {
		f := newFixture(t)
		var stages []string

		_, err := gate.Run(ctx, f.g, f.admin, f.mutation(&input{Title: "Trip"}, &stages))
		require.NoError(t, err)
		assert.Contains(t, stages, "persist")
	})

	t.Run("failed check persists nothing", func(t *testing.T) {
		f := newFixture(t)
		var stages []string
		m := f.mutation(&input{Title: "Trip"}, &stages)
		m.Check = func(context.Context) error { return core.NewNotFoundError("subject") }

		_, err := gate.Run(ctx, f.g, f.teacher, m)
		assert.True(t, core.IsNotFound(err))
		assert.NotContains(t, stages, "persist")
		assert.Empty(t, f.fanout.calls)
	})

	t.Run("failed persist is wrapped and notifies nobody", func(t *testing.T) {
		f := newFixture(t)
		var stages []string
		m := f.mutation(&input{Title: "Trip"}, &stages)
		m.Persist = func(context.Context) (string, error) {
			return "", core.NewConflictError("announcement already exists")
		}

		_, err := gate.Run(ctx, f.g, f.teacher, m)
		require.Error(t, err)
		assert.True(t, core.IsConflict(err))
		assert.Equal(t, "persisting createAnnouncement: announcement already exists", err.Error())
		assert.NotContains(t, stages, "notify")
		assert.Empty(t, f.fanout.calls)
	})

	t.Run("failed fanout keeps the write", func(t *testing.T) {
		f := newFixture(t)
		f.fanout.err = errors.New("notifications table is locked")
		var stages []string

		got, err := gate.Run(ctx, f.g, f.teacher, f.mutation(&input{Title: "Trip"}, &stages))
		require.NoError(t, err)
		assert.Equal(t, "Trip", got)
		assert.Len(t, f.fanout.calls, 1)
	})
}

func TestGate_AuthorizeClass(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.NoError(t, f.g.AuthorizeClass(ctx, f.teacher, auth.OpListClassMarks, f.classID))
	assert.NoError(t, f.g.AuthorizeClass(ctx, f.admin, auth.OpListClassMarks, f.classID))
	assert.True(t, core.IsForbidden(f.g.AuthorizeClass(ctx, f.outsider, auth.OpListClassMarks, f.classID)))
	// the role check still applies to admins
	assert.True(t, core.IsForbidden(f.g.AuthorizeClass(ctx, f.admin, auth.OpSubmitTest, f.classID)))
}

func TestRun_perStudentNotices(t *testing.T) {
	f := newFixture(t)
	var stages []string
	m := f.mutation(&input{Title: "Midterm"}, &stages)
	m.Notify = func(string) []gate.Notice {
		return []gate.Notice{{Each: []notification.Personal{
			{StudentID: "s1", Message: notification.Message{Title: "Marks Updated", Body: "85/100"}},
			{StudentID: "s2", Message: notification.Message{Title: "Marks Updated", Body: "40/100"}},
		}}}
	}

	_, err := gate.Run(context.Background(), f.g, f.teacher, m)
	require.NoError(t, err)
	if assert.Len(t, f.fanout.calls, 2) {
		assert.Equal(t, "students:s1", f.fanout.calls[0].audience)
		assert.Equal(t, "85/100", f.fanout.calls[0].msg.Body)
		assert.Equal(t, "students:s2", f.fanout.calls[1].audience)
		assert.Equal(t, "40/100", f.fanout.calls[1].msg.Body)
	}
}

// The class roster is read when the fanout runs, after the write, not when the request started.
func TestRun_recipientsResolvedAtFanout(t *testing.T) {
	a := testutil.NewApp()
	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(a.DB, "Grade 5", teacher)
	leaverUsr, leaver := testutil.CreateStudentWithAccount(a.DB, "Leaver", "leaver@test.cd")
	stayerUsr, stayer := testutil.CreateStudentWithAccount(a.DB, "Stayer", "stayer@test.cd")
	joinerUsr, joiner := testutil.CreateStudentWithAccount(a.DB, "Joiner", "joiner@test.cd")
	testutil.Enroll(a.DB, class, leaver, stayer)

	_, err := gate.Run(context.Background(), a.Gate, testutil.Principal(teacher), gate.Mutation[string]{
		Op:    auth.OpCreateAnnouncement,
		Class: func(context.Context) (string, error) { return class.ID, nil },
		Persist: func(context.Context) (string, error) {
			a.DB.Unenroll(leaver.ID, class.ID)
			testutil.Enroll(a.DB, class, joiner)
			return "Trip", nil
		},
		Notify: func(title string) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToClassStudents(class.ID),
				Message:  notification.Message{Title: title, Type: notification.TypeAnnouncement},
			}}
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, a.DB.NotificationCount())
	assert.Empty(t, a.DB.Notifications(leaverUsr.UserID))
	assert.Len(t, a.DB.Notifications(stayerUsr.UserID), 1)
	assert.Len(t, a.DB.Notifications(joinerUsr.UserID), 1)
}
