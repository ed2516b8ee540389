//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/uniport/campus-api/internal/errors"
)

// PersonKind tags the runtime subtype of a person record. The kind is
// resolved once when the record is loaded and drives permission tags;
// there is no subtype hierarchy for authorization purposes.
type PersonKind string

const (
	// KindPerson is the base record with no subtype payload. It matches no
	// permission rule.
	KindPerson PersonKind = "person"
	// KindStudent is an enrolled student.
	KindStudent PersonKind = "student"
	// KindEmployee is a university employee.
	KindEmployee PersonKind = "employee"
	// KindLecturer is a teaching employee. Lecturer permissions are distinct
	// from employee permissions even though a lecturer is stored with
	// employee fields as well.
	KindLecturer PersonKind = "lecturer"
)

// Valid reports whether the kind is one of the supported values.
func (k PersonKind) Valid() bool {
	switch k {
	case KindPerson, KindStudent, KindEmployee, KindLecturer:
		return true
	default:
		return false
	}
}

// RoleTag returns the role-name component for the kind, or "" for kinds
// that carry no permission rule (the base person record).
func (k PersonKind) RoleTag() string {
	switch k {
	case KindStudent:
		return "Student"
	case KindEmployee:
		return "Employee"
	case KindLecturer:
		return "Lecturer"
	case KindPerson:
		return ""
	default:
		return ""
	}
}

// ParsePersonKind normalizes a kind string and reports whether it is supported.
func ParsePersonKind(value string) (PersonKind, bool) {
	kind := PersonKind(strings.ToLower(strings.TrimSpace(value)))
	if kind.Valid() {
		return kind, true
	}
	return "", false
}

// StudyStatus is the enrollment state of a student.
type StudyStatus string

const (
	StudyStatusEnrolled  StudyStatus = "enrolled"
	StudyStatusLeave     StudyStatus = "leave"
	StudyStatusGraduated StudyStatus = "graduated"
	StudyStatusWithdrawn StudyStatus = "withdrawn"
)

// Valid reports whether the study status is supported.
func (s StudyStatus) Valid() bool {
	switch s {
	case StudyStatusEnrolled, StudyStatusLeave, StudyStatusGraduated, StudyStatusWithdrawn:
		return true
	default:
		return false
	}
}

// ParseStudyStatus normalizes a study status string. Unknown values are
// rejected with a validation error rather than passed through to the
// database layer.
func ParseStudyStatus(value string) (StudyStatus, error) {
	status := StudyStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", apperrors.ValidationField("study_status", "unknown study status: "+value)
	}
	return status, nil
}

// EmploymentStatus is the contract state of an employee.
type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusSabbatical EmploymentStatus = "sabbatical"
	EmploymentStatusRetired    EmploymentStatus = "retired"
)

// Valid reports whether the employment status is supported.
func (s EmploymentStatus) Valid() bool {
	switch s {
	case EmploymentStatusActive, EmploymentStatusSabbatical, EmploymentStatusRetired:
		return true
	default:
		return false
	}
}

// ParseEmploymentStatus normalizes an employment status string, rejecting
// unknown values with a validation error.
func ParseEmploymentStatus(value string) (EmploymentStatus, error) {
	status := EmploymentStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", apperrors.ValidationField("employment_status", "unknown employment status: "+value)
	}
	return status, nil
}

// StudentDetails is the student-specific payload of a person record.
type StudentDetails struct {
	MatriculationNumber string      `json:"matriculation_number" db:"matriculation_number"`
	StudyStatus         StudyStatus `json:"study_status"         db:"study_status"`
}

// EmployeeDetails is the employee-specific payload of a person record.
type EmployeeDetails struct {
	Department       string           `json:"department"        db:"department"`
	EmploymentStatus EmploymentStatus `json:"employment_status" db:"employment_status"`
}

// LecturerDetails is the lecturer-specific payload of a person record.
// Lecturers also carry EmployeeDetails on the same record.
type LecturerDetails struct {
	LectureCount int `json:"lecture_count" db:"lecture_count"`
}

// Person is the local domain record for a member of the university.
// ID doubles as the cross-system identifier shared with the identity
// directory. Exactly the payloads implied by Kind are non-nil.
type Person struct {
	ID        string     `json:"id"                   db:"id"`
	FirstName string     `json:"first_name"           db:"first_name"`
	LastName  string     `json:"last_name"            db:"last_name"`
	Email     string     `json:"email"                db:"email"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Kind      PersonKind `json:"kind"                 db:"kind"`

	Student  *StudentDetails  `json:"student,omitempty"`
	Employee *EmployeeDetails `json:"employee,omitempty"`
	Lecturer *LecturerDetails `json:"lecturer,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePersonRequest carries the parameters for creating a person record.
type CreatePersonRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Kind      PersonKind `json:"kind"`

	Student  *StudentDetails  `json:"student,omitempty"`
	Employee *EmployeeDetails `json:"employee,omitempty"`
	Lecturer *LecturerDetails `json:"lecturer,omitempty"`
}

// Normalize trims whitespace and lowercases normalized fields in place.
func (r *CreatePersonRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Kind = PersonKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
}

// Validate checks required fields and kind/payload consistency.
func (r *CreatePersonRequest) Validate() error {
	if r.FirstName == "" {
		return apperrors.ValidationField("first_name", "first name is required")
	}
	if r.LastName == "" {
		return apperrors.ValidationField("last_name", "last name is required")
	}
	if r.Email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if !r.Kind.Valid() {
		return apperrors.ValidationField("kind", "unknown person kind: "+string(r.Kind))
	}
	switch r.Kind {
	case KindStudent:
		if r.Student == nil {
			return apperrors.ValidationField("student", "student details are required for kind student")
		}
		if !r.Student.StudyStatus.Valid() {
			return apperrors.ValidationField("study_status", "unknown study status: "+string(r.Student.StudyStatus))
		}
	case KindEmployee:
		if r.Employee == nil {
			return apperrors.ValidationField("employee", "employee details are required for kind employee")
		}
		if !r.Employee.EmploymentStatus.Valid() {
			return apperrors.ValidationField("employment_status", "unknown employment status: "+string(r.Employee.EmploymentStatus))
		}
	case KindLecturer:
		if r.Employee == nil {
			return apperrors.ValidationField("employee", "employee details are required for kind lecturer")
		}
		if !r.Employee.EmploymentStatus.Valid() {
			return apperrors.ValidationField("employment_status", "unknown employment status: "+string(r.Employee.EmploymentStatus))
		}
		if r.Lecturer == nil {
			return apperrors.ValidationField("lecturer", "lecturer details are required for kind lecturer")
		}
	case KindPerson:
		// base record, no payload
	}
	return nil
}

// UpdatePersonRequest carries a partial update. Nil fields are left
// untouched. Enum-valued fields arrive as free text from the request layer
// and are validated via the Parse helpers before they reach the repository.
type UpdatePersonRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	StudyStatus      *string `json:"study_status,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
}

// Normalize trims whitespace on set fields in place.
func (r *UpdatePersonRequest) Normalize() {
	if r.FirstName != nil {
		v := strings.TrimSpace(*r.FirstName)
		r.FirstName = &v
	}
	if r.LastName != nil {
		v := strings.TrimSpace(*r.LastName)
		r.LastName = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
}

// Validate rejects invalid enum values up front so a bad status never
// reaches the database as free text.
func (r *UpdatePersonRequest) Validate() error {
	if r.FirstName != nil && *r.FirstName == "" {
		return apperrors.ValidationField("first_name", "first name cannot be empty")
	}
	if r.LastName != nil && *r.LastName == "" {
		return apperrors.ValidationField("last_name", "last name cannot be empty")
	}
	if r.Email != nil && *r.Email == "" {
		return apperrors.ValidationField("email", "email cannot be empty")
	}
	if r.StudyStatus != nil {
		if _, err := ParseStudyStatus(*r.StudyStatus); err != nil {
			return err
		}
	}
	if r.EmploymentStatus != nil {
		if _, err := ParseEmploymentStatus(*r.EmploymentStatus); err != nil {
			return err
		}
	}
	return nil
}

// EnrichedPerson is the response-shaping view of a person with identity
// fields merged in from the directory. The directory fields stay nil when
// no directory record was found or the lookup failed; the local record is
// never mutated.
type EnrichedPerson struct {
	Person

	Username          *string `json:"username,omitempty"`
	DirectoryFirst    *string `json:"directory_first_name,omitempty"`
	DirectoryLast     *string `json:"directory_last_name,omitempty"`
	DirectoryEmail    *string `json:"directory_email,omitempty"`
	DirectoryResolved bool    `json:"directory_resolved"`
}
