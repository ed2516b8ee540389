package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/uniport/campus-api/internal/errors"
)

func TestPersonKind(t *testing.T) {
	t.Run("role tags", func(t *testing.T) {
		assert.Equal(t, "", KindPerson.RoleTag())
		assert.Equal(t, "Student", KindStudent.RoleTag())
		assert.Equal(t, "Employee", KindEmployee.RoleTag())
		assert.Equal(t, "Lecturer", KindLecturer.RoleTag())
		assert.Equal(t, "", PersonKind("ghost").RoleTag())
	})

	t.Run("parse", func(t *testing.T) {
		kind, ok := ParsePersonKind("  Student ")
		require.True(t, ok)
		assert.Equal(t, KindStudent, kind)

		_, ok = ParsePersonKind("professor")
		assert.False(t, ok)

		_, ok = ParsePersonKind("")
		assert.False(t, ok)
	})
}

func TestParseStatuses(t *testing.T) {
	t.Run("study status accepts known values case-insensitively", func(t *testing.T) {
		status, err := ParseStudyStatus("ENROLLED")
		require.NoError(t, err)
		assert.Equal(t, StudyStatusEnrolled, status)
	})

	t.Run("study status rejects free text", func(t *testing.T) {
		_, err := ParseStudyStatus("party")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "study_status", apperrors.GetField(err))
	})

	t.Run("employment status accepts known values", func(t *testing.T) {
		status, err := ParseEmploymentStatus(" sabbatical ")
		require.NoError(t, err)
		assert.Equal(t, EmploymentStatusSabbatical, status)
	})

	t.Run("employment status rejects free text", func(t *testing.T) {
		_, err := ParseEmploymentStatus("fired")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "employment_status", apperrors.GetField(err))
	})
}

func validStudentRequest() CreatePersonRequest {
	return CreatePersonRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@campus.example",
		Kind:      KindStudent,
		Student: &StudentDetails{
			MatriculationNumber: "s100",
			StudyStatus:         StudyStatusEnrolled,
		},
	}
}

func TestCreatePersonRequest_Normalize(t *testing.T) {
	req := CreatePersonRequest{
		FirstName: "  Ada ",
		LastName:  " Lovelace",
		Email:     " ADA@Campus.Example ",
		Kind:      PersonKind(" Student "),
	}
	req.Normalize()

	assert.Equal(t, "Ada", req.FirstName)
	assert.Equal(t, "Lovelace", req.LastName)
	assert.Equal(t, "ada@campus.example", req.Email)
	assert.Equal(t, KindStudent, req.Kind)
}

func TestCreatePersonRequest_Validate(t *testing.T) {
	t.Run("valid student", func(t *testing.T) {
		req := validStudentRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("valid base person without payload", func(t *testing.T) {
		req := CreatePersonRequest{FirstName: "A", LastName: "B", Email: "a@b", Kind: KindPerson}
		assert.NoError(t, req.Validate())
	})

	t.Run("lecturer needs employee and lecturer payloads", func(t *testing.T) {
		req := CreatePersonRequest{
			FirstName: "Lena", LastName: "L", Email: "l@campus.example", Kind: KindLecturer,
			Employee: &EmployeeDetails{Department: "CS", EmploymentStatus: EmploymentStatusActive},
			Lecturer: &LecturerDetails{LectureCount: 3},
		}
		assert.NoError(t, req.Validate())

		req.Lecturer = nil
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "lecturer", apperrors.GetField(err))

		req.Lecturer = &LecturerDetails{}
		req.Employee = nil
		err = req.Validate()
		require.Error(t, err)
		assert.Equal(t, "employee", apperrors.GetField(err))
	})

	failures := []struct {
		name   string
		mutate func(*CreatePersonRequest)
		field  string
	}{
		{"missing first name", func(r *CreatePersonRequest) { r.FirstName = "" }, "first_name"},
		{"missing last name", func(r *CreatePersonRequest) { r.LastName = "" }, "last_name"},
		{"missing email", func(r *CreatePersonRequest) { r.Email = "" }, "email"},
		{"unknown kind", func(r *CreatePersonRequest) { r.Kind = "wizard" }, "kind"},
		{"student without payload", func(r *CreatePersonRequest) { r.Student = nil }, "student"},
		{
			"student with free-text status",
			func(r *CreatePersonRequest) { r.Student.StudyStatus = "party" },
			"study_status",
		},
		{
			"employee with free-text status",
			func(r *CreatePersonRequest) {
				r.Kind = KindEmployee
				r.Employee = &EmployeeDetails{Department: "X", EmploymentStatus: "fired"}
			},
			"employment_status",
		},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			req := validStudentRequest()
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestUpdatePersonRequest_Validate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("nil fields are fine", func(t *testing.T) {
		req := UpdatePersonRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("known enum strings pass", func(t *testing.T) {
		req := UpdatePersonRequest{
			StudyStatus:      strPtr("graduated"),
			EmploymentStatus: strPtr("retired"),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("free-text enum strings are rejected", func(t *testing.T) {
		req := UpdatePersonRequest{StudyStatus: strPtr("on vacation")}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("set-but-empty fields are rejected", func(t *testing.T) {
		req := UpdatePersonRequest{Email: strPtr("")}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "email", apperrors.GetField(err))
	})

	t.Run("normalize trims set fields", func(t *testing.T) {
		req := UpdatePersonRequest{
			FirstName: strPtr(" Grace "),
			Email:     strPtr(" GRACE@Campus.Example "),
		}
		req.Normalize()
		assert.Equal(t, "Grace", *req.FirstName)
		assert.Equal(t, "grace@campus.example", *req.Email)
	})
}
