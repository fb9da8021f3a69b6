// Package store is the Postgres persistence layer for users, departments and
// topics. Chat sessions live in redis, not here.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/campuslink/campuslink/models"
)

type Store struct {
	DB *sql.DB
}

// New builds the store from DATABASE_URL, falling back to the individual
// POSTGRES_* variables.
func New(ctx context.Context) (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getenvDefault("POSTGRES_HOST", "localhost")
		port := getenvDefault("POSTGRES_PORT", "5432")
		user := os.Getenv("POSTGRES_USER")
		pass := os.Getenv("POSTGRES_PASSWORD")
		db := os.Getenv("POSTGRES_DB")
		ssl := getenvDefault("POSTGRES_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
	}
	return NewWithDSN(ctx, dsn)
}

// NewWithDSN constructs the Store using an explicit Postgres DSN.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// User operations
func (s *Store) CreateUser(ctx context.Context, email, hash string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES ($1,$2)`, email, hash)
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (id string, hash string, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email=$1`, email).Scan(&id, &hash)
	return
}

// Department operations
func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, email, phone, room, description FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Department
	for rows.Next() {
		var d models.Department
		var email, phone, room, desc sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &email, &phone, &room, &desc); err != nil {
			return nil, err
		}
		d.Email = email.String
		d.Phone = phone.String
		d.Room = room.String
		d.Description = desc.String
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, d models.Department) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO departments (name, email, phone, room, description)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, d.Name, nullableString(d.Email), nullableString(d.Phone), nullableString(d.Room), nullableString(d.Description)).Scan(&id)
	return id, err
}

// topicColumns is the select list every topic query shares. Queries aliasing
// topics as t and left-joining departments as d can reuse it verbatim.
const topicColumns = `
t.id, t.type, t.title, t.description,
t.department_id, d.name,
t.start_date, t.end_date, t.application_deadline,
t.location, t.organizer, t.requirements, t.value, t.provider,
t.eligibility, t.application_process, t.company, t.salary, t.position,
t.contact_info, t.is_important, t.created_by, t.created_at`

// Topic operations
func (s *Store) CreateTopic(ctx context.Context, t models.Topic) (string, error) {
	if strings.TrimSpace(t.Title) == "" {
		return "", fmt.Errorf("topic title required")
	}
	if !models.ValidTopicType(t.Type) {
		return "", fmt.Errorf("unknown topic type %q", t.Type)
	}
	var id string
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO topics (type, title, description, department_id,
  start_date, end_date, application_deadline,
  location, organizer, requirements, value, provider,
  eligibility, application_process, company, salary, position,
  contact_info, is_important, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
RETURNING id
`, string(t.Type), t.Title, t.Description, nullableString(t.DepartmentID),
		t.StartDate, t.EndDate, t.ApplicationDeadline,
		nullableString(t.Location), nullableString(t.Organizer), nullableString(t.Requirements),
		nullableString(t.Value), nullableString(t.Provider), nullableString(t.Eligibility),
		nullableString(t.ApplicationProcess), nullableString(t.Company), nullableString(t.Salary),
		nullableString(t.Position), nullableString(t.ContactInfo), t.IsImportant,
		nullableString(t.CreatedBy)).Scan(&id)
	return id, err
}

func (s *Store) UpdateTopic(ctx context.Context, t models.Topic) error {
	if !models.ValidTopicType(t.Type) {
		return fmt.Errorf("unknown topic type %q", t.Type)
	}
	res, err := s.DB.ExecContext(ctx, `
UPDATE topics SET
  type=$2, title=$3, description=$4, department_id=$5,
  start_date=$6, end_date=$7, application_deadline=$8,
  location=$9, organizer=$10, requirements=$11, value=$12, provider=$13,
  eligibility=$14, application_process=$15, company=$16, salary=$17, position=$18,
  contact_info=$19, is_important=$20
WHERE id=$1
`, t.ID, string(t.Type), t.Title, t.Description, nullableString(t.DepartmentID),
		t.StartDate, t.EndDate, t.ApplicationDeadline,
		nullableString(t.Location), nullableString(t.Organizer), nullableString(t.Requirements),
		nullableString(t.Value), nullableString(t.Provider), nullableString(t.Eligibility),
		nullableString(t.ApplicationProcess), nullableString(t.Company), nullableString(t.Salary),
		nullableString(t.Position), nullableString(t.ContactInfo), t.IsImportant)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrTopicNotFound
	}
	return nil
}

func (s *Store) DeleteTopic(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM topics WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrTopicNotFound
	}
	return nil
}

func (s *Store) GetTopic(ctx context.Context, id string) (models.Topic, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT `+topicColumns+`
FROM topics t
LEFT JOIN departments d ON d.id = t.department_id
WHERE t.id=$1
`, id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Topic{}, models.ErrTopicNotFound
	}
	return t, err
}

// TopicsByID resolves ids to topics. Ids that no longer exist are skipped, so
// the result can be shorter than the input.
func (s *Store) TopicsByID(ctx context.Context, ids []string) ([]models.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT `+topicColumns+`
FROM topics t
LEFT JOIN departments d ON d.id = t.department_id
WHERE t.id = ANY($1)
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTopics(rows)
}

// ListTopics returns topics matching the filter, most recent first. A topic
// with no department always matches a department-constrained filter.
func (s *Store) ListTopics(ctx context.Context, f models.TopicFilter) ([]models.Topic, error) {
	query := `
SELECT ` + topicColumns + `
FROM topics t
LEFT JOIN departments d ON d.id = t.department_id
WHERE 1=1`
	var args []interface{}
	if f.Type != "" {
		args = append(args, string(f.Type))
		query += fmt.Sprintf(" AND t.type=$%d", len(args))
	}
	if f.DepartmentID != "" {
		args = append(args, f.DepartmentID)
		query += fmt.Sprintf(" AND (t.department_id IS NULL OR t.department_id=$%d)", len(args))
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTopics(rows)
}

// AllTopics loads the whole corpus, oldest first. Used to rebuild the search
// index at startup.
func (s *Store) AllTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT `+topicColumns+`
FROM topics t
LEFT JOIN departments d ON d.id = t.department_id
ORDER BY t.created_at ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTopics(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTopic(row rowScanner) (models.Topic, error) {
	var (
		t                                 models.Topic
		typ                               string
		departmentID, departmentName      sql.NullString
		startDate, endDate, deadline      sql.NullTime
		location, organizer, requirements sql.NullString
		value, provider, eligibility      sql.NullString
		applicationProcess, company       sql.NullString
		salary, position, contactInfo     sql.NullString
		createdBy                         sql.NullString
	)
	err := row.Scan(&t.ID, &typ, &t.Title, &t.Description,
		&departmentID, &departmentName,
		&startDate, &endDate, &deadline,
		&location, &organizer, &requirements, &value, &provider,
		&eligibility, &applicationProcess, &company, &salary, &position,
		&contactInfo, &t.IsImportant, &createdBy, &t.CreatedAt)
	if err != nil {
		return models.Topic{}, err
	}
	t.Type = models.TopicType(typ)
	t.DepartmentID = departmentID.String
	t.DepartmentName = departmentName.String
	t.StartDate = timePtr(startDate)
	t.EndDate = timePtr(endDate)
	t.ApplicationDeadline = timePtr(deadline)
	t.Location = location.String
	t.Organizer = organizer.String
	t.Requirements = requirements.String
	t.Value = value.String
	t.Provider = provider.String
	t.Eligibility = eligibility.String
	t.ApplicationProcess = applicationProcess.String
	t.Company = company.String
	t.Salary = salary.String
	t.Position = position.String
	t.ContactInfo = contactInfo.String
	t.CreatedBy = createdBy.String
	return t, nil
}

func collectTopics(rows *sql.Rows) ([]models.Topic, error) {
	var out []models.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullableString(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
