package auth

// Operation names a gated action.
type Operation string

// Writes
const (
	OpUploadMarks        Operation = "uploadMarks"
	OpUpdateMark         Operation = "updateMark"
	OpRecordAttendance   Operation = "recordAttendance"
	OpCreateAssignment   Operation = "createAssignment"
	OpCreateAnnouncement Operation = "createAnnouncement"
	OpCreateTest         Operation = "createTest"
	OpAddTestQuestions   Operation = "addTestQuestions"
	OpSubmitAssignment   Operation = "submitAssignment"
	OpSubmitTest         Operation = "submitTest"
	OpCreateEnrollment   Operation = "createEnrollment"
	OpAssignRole         Operation = "assignRole"
	OpCreateNotification Operation = "createNotification"
	OpCreateSubject      Operation = "createSubject"
	OpCreateExam         Operation = "createExam"
	OpCreateClass        Operation = "createClass"
	OpCreateStudent      Operation = "createStudent"
	OpAssignTeacher      Operation = "assignTeacher"
	OpUploadAvatar       Operation = "uploadAvatar"
)

// Reads
const (
	OpListOwnMarks         Operation = "listOwnMarks"
	OpListClassMarks       Operation = "listClassMarks"
	OpListOwnAttendance    Operation = "listOwnAttendance"
	OpListClassAttendance  Operation = "listClassAttendance"
	OpListSubmissions      Operation = "listSubmissions"
	OpTakeTest             Operation = "takeTest"
	OpListTestSubmissions  Operation = "listTestSubmissions"
	OpListClassEnrollments Operation = "listClassEnrollments"
	OpListUsers            Operation = "listUsers"
)

var (
	staff    = []Role{RoleTeacher, RoleAdmin}
	students = []Role{RoleStudent}
	admins   = []Role{RoleAdmin}
	everyone = []Role{RoleAdmin, RoleTeacher, RoleStudent}

	// allowedRoles is the allowed-set of every operation.
	// An operation missing from this table is allowed to nobody.
	allowedRoles = map[Operation][]Role{
		OpUploadMarks:        staff,
		OpUpdateMark:         staff,
		OpRecordAttendance:   staff,
		OpCreateAssignment:   staff,
		OpCreateAnnouncement: staff,
		OpCreateTest:         staff,
		OpAddTestQuestions:   staff,
		OpSubmitAssignment:   students,
		OpSubmitTest:         students,
		OpCreateEnrollment:   admins,
		OpAssignRole:         admins,
		OpCreateNotification: admins,
		OpCreateSubject:      staff,
		OpCreateExam:         staff,
		OpCreateClass:        admins,
		OpCreateStudent:      admins,
		OpAssignTeacher:      admins,
		OpUploadAvatar:       everyone,

		OpListOwnMarks:         students,
		OpListClassMarks:       staff,
		OpListOwnAttendance:    students,
		OpListClassAttendance:  staff,
		OpListSubmissions:      staff,
		OpTakeTest:             students,
		OpListTestSubmissions:  staff,
		OpListClassEnrollments: staff,
		OpListUsers:            admins,
	}
)

// Operations lists every operation known to the allowed-set table.
func Operations() []Operation {
	ops := make([]Operation, 0, len(allowedRoles))
	for op := range allowedRoles {
		ops = append(ops, op)
	}
	return ops
}

// AllowedRoles returns the roles allowed to perform op.
func AllowedRoles(op Operation) []Role {
	return allowedRoles[op]
}

// Allows reports whether role may perform op.
func Allows(op Operation, role Role) bool {
	for _, r := range allowedRoles[op] {
		if r == role {
			return true
		}
	}
	return false
}
