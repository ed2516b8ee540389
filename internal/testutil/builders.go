// Package testutil provides testing utilities and helpers for the campus identity subsystem.
package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniport/campus-api/internal/domain/model"
)

// PersonRequestBuilder provides a fluent interface for building CreatePersonRequest objects for testing.
type PersonRequestBuilder struct {
	req *model.CreatePersonRequest
}

// NewPersonRequest creates a new PersonRequestBuilder with sensible defaults.
func NewPersonRequest() *PersonRequestBuilder {
	return &PersonRequestBuilder{
		req: &model.CreatePersonRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada.lovelace@campus.example",
			Kind:      model.KindPerson,
		},
	}
}

// WithName sets the first and last name.
func (b *PersonRequestBuilder) WithName(first, last string) *PersonRequestBuilder {
	b.req.FirstName = first
	b.req.LastName = last
	return b
}

// WithEmail sets the email address.
func (b *PersonRequestBuilder) WithEmail(email string) *PersonRequestBuilder {
	b.req.Email = email
	return b
}

// WithBirthDate sets the birth date.
func (b *PersonRequestBuilder) WithBirthDate(t time.Time) *PersonRequestBuilder {
	b.req.BirthDate = &t
	return b
}

// AsStudent sets the kind to student with the given payload.
func (b *PersonRequestBuilder) AsStudent(matriculation string, status model.StudyStatus) *PersonRequestBuilder {
	b.req.Kind = model.KindStudent
	b.req.Student = &model.StudentDetails{
		MatriculationNumber: matriculation,
		StudyStatus:         status,
	}
	return b
}

// AsEmployee sets the kind to employee with the given payload.
func (b *PersonRequestBuilder) AsEmployee(department string, status model.EmploymentStatus) *PersonRequestBuilder {
	b.req.Kind = model.KindEmployee
	b.req.Employee = &model.EmployeeDetails{
		Department:       department,
		EmploymentStatus: status,
	}
	return b
}

// AsLecturer sets the kind to lecturer. Lecturers carry employee fields
// alongside the lecture count.
func (b *PersonRequestBuilder) AsLecturer(department string, status model.EmploymentStatus, lectures int) *PersonRequestBuilder {
	b.req.Kind = model.KindLecturer
	b.req.Employee = &model.EmployeeDetails{
		Department:       department,
		EmploymentStatus: status,
	}
	b.req.Lecturer = &model.LecturerDetails{LectureCount: lectures}
	return b
}

// Build returns the constructed CreatePersonRequest.
func (b *PersonRequestBuilder) Build() *model.CreatePersonRequest {
	return b.req
}

// Common request presets.

// StudentRequest creates a student creation request with default values.
func StudentRequest() *model.CreatePersonRequest {
	return NewPersonRequest().
		WithName("Stella", "Student").
		WithEmail("stella.student@campus.example").
		AsStudent("s1000001", model.StudyStatusEnrolled).
		Build()
}

// EmployeeRequest creates an employee creation request with default values.
func EmployeeRequest() *model.CreatePersonRequest {
	return NewPersonRequest().
		WithName("Erik", "Employee").
		WithEmail("erik.employee@campus.example").
		AsEmployee("Facilities", model.EmploymentStatusActive).
		Build()
}

// LecturerRequest creates a lecturer creation request with default values.
func LecturerRequest() *model.CreatePersonRequest {
	return NewPersonRequest().
		WithName("Lena", "Lecturer").
		WithEmail("lena.lecturer@campus.example").
		AsLecturer("Computer Science", model.EmploymentStatusActive, 2).
		Build()
}

// NewPerson builds a stored person record for tests that bypass the repository.
func NewPerson(kind model.PersonKind) *model.Person {
	now := TestTime()
	p := &model.Person{
		ID:        uuid.NewString(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada.lovelace@campus.example",
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch kind {
	case model.KindStudent:
		p.Student = &model.StudentDetails{
			MatriculationNumber: "s1000001",
			StudyStatus:         model.StudyStatusEnrolled,
		}
	case model.KindEmployee:
		p.Employee = &model.EmployeeDetails{
			Department:       "Facilities",
			EmploymentStatus: model.EmploymentStatusActive,
		}
	case model.KindLecturer:
		p.Employee = &model.EmployeeDetails{
			Department:       "Computer Science",
			EmploymentStatus: model.EmploymentStatusActive,
		}
		p.Lecturer = &model.LecturerDetails{LectureCount: 2}
	case model.KindPerson:
		// base record, no payload
	}
	return p
}

// DirectoryUserFor builds a directory record matching the given person.
func DirectoryUserFor(p *model.Person) model.DirectoryUser {
	username, _, _ := strings.Cut(p.Email, "@")
	return model.DirectoryUser{
		ID:        p.ID,
		Username:  username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Enabled:   true,
	}
}
