package inmemdb

import (
	"strings"
	"sync"

	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/announcement"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/mark"
	"github.com/trezcool/campus/core/mcq"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/core/user"
)

// DB keeps every table in memory behind one lock.
// It enforces the same unique keys as the postgres schema.
type DB struct {
	mutex sync.RWMutex

	profiles      map[string]user.Profile // by user id
	roles         map[string]auth.Role
	classes       map[string]academic.Class
	classTeachers map[[2]string]struct{} // class, teacher
	students      map[string]academic.Student
	enrollments   map[[2]string]academic.Enrollment // student, class
	subjects      map[string]academic.Subject
	exams         map[string]academic.Exam
	marks         []mark.Mark
	attendance    []attendance.Record
	assignments   map[string]assignment.Assignment
	submissions   []assignment.Submission
	tests         map[string]mcq.Test
	questions     []mcq.Question
	testSubs      []mcq.Submission
	announcements []announcement.Announcement
	notifications []notification.Notification

	// notifErr makes every notification insert fail when set.
	notifErr error
}

func New() *DB {
	return &DB{
		profiles:      make(map[string]user.Profile),
		roles:         make(map[string]auth.Role),
		classes:       make(map[string]academic.Class),
		classTeachers: make(map[[2]string]struct{}),
		students:      make(map[string]academic.Student),
		enrollments:   make(map[[2]string]academic.Enrollment),
		subjects:      make(map[string]academic.Subject),
		exams:         make(map[string]academic.Exam),
		assignments:   make(map[string]assignment.Assignment),
		tests:         make(map[string]mcq.Test),
	}
}

// FailNotifications makes notification inserts return err, until called with nil.
func (db *DB) FailNotifications(err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.notifErr = err
}

// Seeding

func (db *DB) AddProfile(p user.Profile) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if r, ok := p.RoleOf(); ok {
		db.roles[p.UserID] = r
	}
	p.Role.Valid = false
	db.profiles[p.UserID] = p
}

func (db *DB) AddClass(c academic.Class) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.classes[c.ID] = c
}

func (db *DB) AssignTeacher(classID, teacherID string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.classTeachers[[2]string{classID, teacherID}] = struct{}{}
}

func (db *DB) UnassignTeacher(classID, teacherID string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	delete(db.classTeachers, [2]string{classID, teacherID})
}

func (db *DB) AddStudent(s academic.Student) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.students[s.ID] = s
}

func (db *DB) AddSubject(s academic.Subject) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.subjects[s.ID] = s
}

func (db *DB) AddExam(e academic.Exam) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.exams[e.ID] = e
}

func (db *DB) Enroll(e academic.Enrollment) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.enrollments[[2]string{e.StudentID, e.ClassID}] = e
}

func (db *DB) Unenroll(studentID, classID string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	delete(db.enrollments, [2]string{studentID, classID})
}

// Inspection

// Notifications returns the notifications of a user, oldest first.
func (db *DB) Notifications(userID string) []notification.Notification {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	var notifs []notification.Notification
	for _, n := range db.notifications {
		if n.UserID == userID {
			notifs = append(notifs, n)
		}
	}
	return notifs
}

func (db *DB) NotificationCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.notifications)
}

func (db *DB) MarkCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.marks)
}

func (db *DB) AttendanceCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.attendance)
}

// studentAccount returns the user id of the account matching the student's email.
func (db *DB) studentAccount(studentID string) (string, bool) {
	s, ok := db.students[studentID]
	if !ok {
		return "", false
	}
	for _, p := range db.profiles {
		if strings.EqualFold(p.Email, s.Email) {
			return p.UserID, true
		}
	}
	return "", false
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
