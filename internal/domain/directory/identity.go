package directory

import (
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

// ===============================
// Collections
// ===============================

type Collection string

const (
	Students Collection = paths.StudentsRoot
	Teachers Collection = paths.TeachersRoot
)

func (c Collection) Valid() bool {
	return c == Students || c == Teachers
}

// ===============================
// Identifiers
// ===============================

const DefaultTeacherPrefix = "T"

// StudentID is an enrollment number.
type StudentID string

// TeacherID always starts with the teacher prefix.
type TeacherID string

func (id StudentID) String() string { return string(id) }
func (id TeacherID) String() string { return string(id) }

func ParseStudentID(s string) (StudentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", httperr.ErrValidation("missing_enrollment_number", "Please enter your enrollment number.")
	}
	if err := docstore.ValidateSegment(s); err != nil {
		return "", httperr.ErrValidation("invalid_enrollment_number", "Enrollment number contains invalid characters.")
	}
	return StudentID(s), nil
}

func ParseTeacherID(s, prefix string) (TeacherID, error) {
	if prefix == "" {
		prefix = DefaultTeacherPrefix
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", httperr.ErrValidation("missing_teacher_id", "Please select a teacher.")
	}
	if !strings.HasPrefix(s, prefix) {
		return "", httperr.ErrValidation("invalid_teacher_id", "Teacher ID must start with '"+prefix+"'.")
	}
	if err := docstore.ValidateSegment(s); err != nil {
		return "", httperr.ErrValidation("invalid_teacher_id", "Teacher ID contains invalid characters.")
	}
	return TeacherID(s), nil
}

// ===============================
// Resolved identities
// ===============================

type StudentIdentity struct {
	ID    StudentID
	Name  string
	Email string
}

type TeacherIdentity struct {
	ID    TeacherID
	Name  string
	Email string
}

const NoNameAvailable = "No name available"

// DisplayName falls back to a placeholder for documents without userName.
func DisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return NoNameAvailable
	}
	return name
}
