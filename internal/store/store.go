// Package store holds the hand-written postgres queries. Every method maps
// to a single statement; transactional flows compose them via WithTx.
package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DBTX
}

func New(db DBTX) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to the given transaction.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: tx}
}

// Migrate applies the embedded schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleEditor ProjectRole = "editor"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   pgtype.Timestamptz
}

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	ItemType  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type ProjectMember struct {
	ProjectID   string
	UserID      string
	Role        ProjectRole
	DisplayName string
	Email       string
}

type Task struct {
	ID         string
	ProjectID  string
	Name       string
	Categories []string
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type Snapshot struct {
	ID        string
	TaskID    string
	Version   int32
	Document  []byte
	CreatedAt pgtype.Timestamptz
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreateProjectParams struct {
	ID       string
	Name     string
	OwnerID  string
	ItemType string
}

func (s *Store) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO projects (id, name, owner_id, item_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, owner_id, item_type, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID, arg.ItemType)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.ItemType, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, owner_id, item_type, created_at, updated_at
		FROM projects WHERE id = $1`, id)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.ItemType, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.owner_id, p.item_type, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID, &p.ItemType, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

type AddProjectMemberParams struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

func (s *Store) AddProjectMember(ctx context.Context, arg AddProjectMemberParams) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		arg.ProjectID, arg.UserID, arg.Role)
	return err
}

type GetProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) GetProjectMember(ctx context.Context, arg GetProjectMemberParams) (ProjectMember, error) {
	row := s.db.QueryRow(ctx, `
		SELECT m.project_id, m.user_id, m.role, u.display_name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1 AND m.user_id = $2`,
		arg.ProjectID, arg.UserID)
	var m ProjectMember
	err := row.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.DisplayName, &m.Email)
	return m, err
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID string) ([]ProjectMember, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.project_id, m.user_id, m.role, u.display_name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY u.display_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []ProjectMember
	for rows.Next() {
		var m ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type RemoveProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) RemoveProjectMember(ctx context.Context, arg RemoveProjectMemberParams) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	return err
}

type CreateTaskParams struct {
	ID         string
	ProjectID  string
	Name       string
	Categories []string
}

func (s *Store) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO tasks (id, project_id, name, categories)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, name, categories, created_at, updated_at`,
		arg.ID, arg.ProjectID, arg.Name, arg.Categories)
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Categories, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) GetTask(ctx context.Context, id string) (Task, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, project_id, name, categories, created_at, updated_at
		FROM tasks WHERE id = $1`, id)
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Categories, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTasksForProject(ctx context.Context, projectID string) ([]Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, project_id, name, categories, created_at, updated_at
		FROM tasks WHERE project_id = $1
		ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Categories, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

type CreateSnapshotParams struct {
	ID       string
	TaskID   string
	Document []byte
}

// CreateSnapshot appends a new document version for the task. The version
// counter advances atomically inside the insert.
func (s *Store) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO snapshots (id, task_id, version, document)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE task_id = $2),
			$3)
		RETURNING id, task_id, version, document, created_at`,
		arg.ID, arg.TaskID, arg.Document)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.TaskID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}

func (s *Store) GetLatestSnapshot(ctx context.Context, taskID string) (Snapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, task_id, version, document, created_at
		FROM snapshots WHERE task_id = $1
		ORDER BY version DESC LIMIT 1`, taskID)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.TaskID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}
