package auth

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "admin", want: RoleAdmin},
		{in: " Teacher ", want: RoleTeacher},
		{in: "STUDENT", want: RoleStudent},
		{in: "", wantErr: true},
		{in: "janitor", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Equal(t, errUnknownRole, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedRoles(t *testing.T) {
	t.Run("every operation is allowed to someone", func(t *testing.T) {
		for _, op := range Operations() {
			roles := AllowedRoles(op)
			assert.NotEmpty(t, roles, op)
			for _, r := range roles {
				assert.True(t, r.Valid(), op)
			}
		}
	})

	t.Run("unknown operation is allowed to nobody", func(t *testing.T) {
		for _, r := range AllRoles {
			assert.False(t, Allows("dropDatabase", r))
		}
	})

	tests := []struct {
		op    Operation
		role  Role
		allow bool
	}{
		{OpUploadMarks, RoleTeacher, true},
		{OpUploadMarks, RoleAdmin, true},
		{OpUploadMarks, RoleStudent, false},
		{OpSubmitTest, RoleStudent, true},
		{OpSubmitTest, RoleAdmin, false},
		{OpSubmitAssignment, RoleTeacher, false},
		{OpCreateEnrollment, RoleTeacher, false},
		{OpAssignRole, RoleAdmin, true},
		{OpCreateNotification, RoleTeacher, false},
		{OpListOwnMarks, RoleTeacher, false},
		{OpListUsers, RoleStudent, false},
		{OpCreateSubject, RoleTeacher, true},
		{OpCreateExam, RoleStudent, false},
		{OpCreateClass, RoleTeacher, false},
		{OpAssignTeacher, RoleAdmin, true},
		{OpUploadAvatar, RoleStudent, true},
		{OpUploadAvatar, "", false},
		{OpUpdateMark, "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allow, Allows(tt.op, tt.role), "%s as %q", tt.op, tt.role)
	}
}

type fakeRepo struct {
	roles     map[string]Role
	teaches   map[string][]string // teacher id: class ids
	creators  map[string]string   // assignment/test id: creator id
	byEmail   map[string]string   // email: student id
	lastEmail string
}

func (r *fakeRepo) GetRole(_ context.Context, userID string) (Role, error) {
	if role, ok := r.roles[userID]; ok {
		return role, nil
	}
	return "", ErrRoleNotFound
}

func (r *fakeRepo) IsClassTeacher(_ context.Context, teacherID, classID string) (bool, error) {
	for _, id := range r.teaches[teacherID] {
		if id == classID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) TeacherClassIDs(_ context.Context, teacherID string) ([]string, error) {
	return r.teaches[teacherID], nil
}

func (r *fakeRepo) creator(id, resource string) (string, error) {
	if c, ok := r.creators[id]; ok {
		return c, nil
	}
	return "", core.NewNotFoundError(resource)
}

func (r *fakeRepo) AssignmentCreator(_ context.Context, id string) (string, error) {
	return r.creator(id, "assignment")
}

func (r *fakeRepo) TestCreator(_ context.Context, id string) (string, error) {
	return r.creator(id, "test")
}

func (r *fakeRepo) StudentIDByEmail(_ context.Context, email string) (string, error) {
	r.lastEmail = email
	if id, ok := r.byEmail[email]; ok {
		return id, nil
	}
	return "", ErrStudentRecordNotFound
}

func TestOracle(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{
		roles:    map[string]Role{"u-admin": RoleAdmin, "u-teacher": RoleTeacher, "u-student": RoleStudent},
		teaches:  map[string][]string{"u-teacher": {"c1"}},
		creators: map[string]string{"a1": "u-teacher", "t1": "u-teacher"},
		byEmail:  map[string]string{"amani@test.cd": "s1"},
	}
	oracle := NewOracle(repo)

	t.Run("ResolvePrincipal", func(t *testing.T) {
		p, err := oracle.ResolvePrincipal(ctx, Identity{UserID: "u-teacher", Email: " Jane@Test.CD "})
		require.NoError(t, err)
		assert.Equal(t, Principal{UserID: "u-teacher", Email: "jane@test.cd", Role: RoleTeacher}, p)

		_, err = oracle.ResolvePrincipal(ctx, Identity{UserID: "u-nobody"})
		assert.Equal(t, ErrRoleNotFound, err)

		_, err = oracle.ResolvePrincipal(ctx, Identity{})
		assert.Equal(t, ErrRoleNotFound, err)
	})

	t.Run("IsOwnerOfClass follows the current assignments", func(t *testing.T) {
		ok, err := oracle.IsOwnerOfClass(ctx, "u-teacher", "c1")
		require.NoError(t, err)
		assert.True(t, ok)

		repo.teaches["u-teacher"] = nil
		ok, err = oracle.IsOwnerOfClass(ctx, "u-teacher", "c1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IsOwnerOfAssignment", func(t *testing.T) {
		teacher := Principal{UserID: "u-teacher", Role: RoleTeacher}
		other := Principal{UserID: "u-other", Role: RoleTeacher}
		admin := Principal{UserID: "u-admin", Role: RoleAdmin}

		for _, tc := range []struct {
			p    Principal
			want bool
		}{{teacher, true}, {other, false}, {admin, true}} {
			ok, err := oracle.IsOwnerOfAssignment(ctx, tc.p, "a1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok, tc.p.UserID)
		}

		_, err := oracle.IsOwnerOfTest(ctx, teacher, "missing")
		assert.IsType(t, &core.NotFoundError{}, errors.Cause(err))
	})

	t.Run("ResolveStudentIdentity", func(t *testing.T) {
		id, err := oracle.ResolveStudentIdentity(ctx, Principal{Email: "Amani@Test.cd"})
		require.NoError(t, err)
		assert.Equal(t, "s1", id)
		assert.Equal(t, "amani@test.cd", repo.lastEmail)

		_, err = oracle.ResolveStudentIdentity(ctx, Principal{Email: "ghost@test.cd"})
		assert.Equal(t, ErrStudentRecordNotFound, err)

		_, err = oracle.ResolveStudentIdentity(ctx, Principal{})
		assert.Equal(t, ErrStudentRecordNotFound, err)
	})
}
