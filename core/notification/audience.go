package notification

import (
	"context"
	"fmt"
	"strings"
)

// Audience resolves the recipients of a fanout at the time the fanout runs.
type Audience interface {
	Recipients(ctx context.Context, repo Repository) ([]string, error)
	fmt.Stringer
}

type userAudience struct {
	userID string
}

// ToUser targets a single, already known user.
func ToUser(userID string) Audience { return userAudience{userID: userID} }

func (a userAudience) Recipients(context.Context, Repository) ([]string, error) {
	if a.userID == "" {
		return nil, nil
	}
	return []string{a.userID}, nil
}

func (a userAudience) String() string { return "user:" + a.userID }

type studentsAudience struct {
	studentIDs []string
}

// ToStudents targets the accounts of the given roster students. Students without an account are skipped.
func ToStudents(studentIDs ...string) Audience { return studentsAudience{studentIDs: studentIDs} }

func (a studentsAudience) Recipients(ctx context.Context, repo Repository) ([]string, error) {
	if len(a.studentIDs) == 0 {
		return nil, nil
	}
	accounts, err := repo.StudentAccounts(ctx, a.studentIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(accounts))
	for _, sid := range a.studentIDs {
		if uid, ok := accounts[sid]; ok {
			ids = append(ids, uid)
		}
	}
	return ids, nil
}

func (a studentsAudience) String() string { return "students:" + strings.Join(a.studentIDs, ",") }

type classAudience struct {
	classID string
}

// ToClassStudents targets every student enrolled in the class when the fanout runs.
func ToClassStudents(classID string) Audience { return classAudience{classID: classID} }

func (a classAudience) Recipients(ctx context.Context, repo Repository) ([]string, error) {
	return repo.UserIDsForClassStudents(ctx, a.classID)
}

func (a classAudience) String() string { return "class:" + a.classID }
