// Package data provides persistence adapters for the campus system.
package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniport/campus-api/internal/data/pgxutil"
	"github.com/uniport/campus-api/internal/domain/model"
	apperrors "github.com/uniport/campus-api/internal/errors"
	"github.com/uniport/campus-api/internal/ports"
)

// PersonRepo implements ports.PersonRepository using PostgreSQL. Person
// records use single-table storage: subtype columns are NULL unless the
// row's kind requires them.
type PersonRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	newID        func() string
}

// NewPersonRepo creates a new PersonRepo with the given database connection.
func NewPersonRepo(db *sql.DB) *PersonRepo {
	return &PersonRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
		newID:        uuid.NewString,
	}
}

// NewPersonRepoWithTimeProvider creates a PersonRepo with a custom time provider.
func NewPersonRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PersonRepo {
	repo := NewPersonRepo(db)
	repo.timeProvider = tp
	return repo
}

const personColumns = `id, first_name, last_name, email, birth_date, kind,
	matriculation_number, study_status, department, employment_status, lecture_count,
	created_at, updated_at`

// personRow is the flat scan target for the persons table.
type personRow struct {
	ID                  string     `db:"id"`
	FirstName           string     `db:"first_name"`
	LastName            string     `db:"last_name"`
	Email               string     `db:"email"`
	BirthDate           *time.Time `db:"birth_date"`
	Kind                string     `db:"kind"`
	MatriculationNumber *string    `db:"matriculation_number"`
	StudyStatus         *string    `db:"study_status"`
	Department          *string    `db:"department"`
	EmploymentStatus    *string    `db:"employment_status"`
	LectureCount        *int       `db:"lecture_count"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// toModel maps a row to a Person, attaching exactly the payloads its kind
// implies.
func (r personRow) toModel() *model.Person {
	kind, ok := model.ParsePersonKind(r.Kind)
	if !ok {
		kind = model.KindPerson
	}

	p := &model.Person{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		BirthDate: r.BirthDate,
		Kind:      kind,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	switch kind {
	case model.KindStudent:
		p.Student = &model.StudentDetails{
			MatriculationNumber: stringOrEmpty(r.MatriculationNumber),
			StudyStatus:         model.StudyStatus(stringOrEmpty(r.StudyStatus)),
		}
	case model.KindEmployee:
		p.Employee = &model.EmployeeDetails{
			Department:       stringOrEmpty(r.Department),
			EmploymentStatus: model.EmploymentStatus(stringOrEmpty(r.EmploymentStatus)),
		}
	case model.KindLecturer:
		p.Employee = &model.EmployeeDetails{
			Department:       stringOrEmpty(r.Department),
			EmploymentStatus: model.EmploymentStatus(stringOrEmpty(r.EmploymentStatus)),
		}
		p.Lecturer = &model.LecturerDetails{
			LectureCount: intOrZero(r.LectureCount),
		}
	case model.KindPerson:
		// base record, no payload
	}

	return p
}

// GetByID returns a person by ID or a NotFound error.
func (r *PersonRepo) GetByID(ctx context.Context, id string) (*model.Person, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.ValidationField("id", "id is required")
	}

	var row personRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(
			ctx,
			`SELECT `+personColumns+` FROM persons WHERE id = $1`,
			id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		row, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[personRow])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("person %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}

	return row.toModel(), nil
}

// Create inserts a new person record with a generated identifier. The
// identifier doubles as the cross-system key shared with the identity
// directory.
func (r *PersonRepo) Create(ctx context.Context, req model.CreatePersonRequest) (*model.Person, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	row := personRow{
		ID:        r.newID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Kind:      string(req.Kind),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.Student != nil {
		row.MatriculationNumber = &req.Student.MatriculationNumber
		s := string(req.Student.StudyStatus)
		row.StudyStatus = &s
	}
	if req.Employee != nil {
		row.Department = &req.Employee.Department
		s := string(req.Employee.EmploymentStatus)
		row.EmploymentStatus = &s
	}
	if req.Lecturer != nil {
		row.LectureCount = &req.Lecturer.LectureCount
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO persons (`+personColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, row.ID, row.FirstName, row.LastName, row.Email, row.BirthDate, row.Kind,
			row.MatriculationNumber, row.StudyStatus, row.Department, row.EmploymentStatus,
			row.LectureCount, row.CreatedAt, row.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	return row.toModel(), nil
}

// Update applies a partial update. Enum-valued fields are validated before
// any row is touched, so a bad status never reaches the database.
func (r *PersonRepo) Update(ctx context.Context, id string, req model.UpdatePersonRequest) (*model.Person, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.ValidationField("id", "id is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var row personRow
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(
			ctx,
			`SELECT `+personColumns+` FROM persons WHERE id = $1 FOR UPDATE`,
			id,
		)
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[personRow])
		if err != nil {
			return err
		}

		applyPersonUpdate(&row, req)
		row.UpdatedAt = r.timeProvider.Now().UTC()

		_, err = tx.Exec(ctx, `
			UPDATE persons
			SET first_name = $2, last_name = $3, email = $4,
			    study_status = $5, employment_status = $6, updated_at = $7
			WHERE id = $1
		`, row.ID, row.FirstName, row.LastName, row.Email,
			row.StudyStatus, row.EmploymentStatus, row.UpdatedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("person %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}

	return row.toModel(), nil
}

// applyPersonUpdate copies set fields from the request onto the row. The
// request was validated, so enum values are normalized by Parse helpers.
func applyPersonUpdate(row *personRow, req model.UpdatePersonRequest) {
	if req.FirstName != nil {
		row.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		row.LastName = *req.LastName
	}
	if req.Email != nil {
		row.Email = *req.Email
	}
	if req.StudyStatus != nil {
		if status, err := model.ParseStudyStatus(*req.StudyStatus); err == nil {
			s := string(status)
			row.StudyStatus = &s
		}
	}
	if req.EmploymentStatus != nil {
		if status, err := model.ParseEmploymentStatus(*req.EmploymentStatus); err == nil {
			s := string(status)
			row.EmploymentStatus = &s
		}
	}
}

// Delete removes a person record.
func (r *PersonRepo) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "id is required")
	}

	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if deleted == 0 {
		return apperrors.NotFoundf("person %s not found", id)
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

var _ ports.PersonRepository = (*PersonRepo)(nil)
