// Package model holds the domain entities served by the demo API: a small
// organization/workspace/job/team/user graph that exercises every
// relationship shape the jsonapi core supports.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionMode describes how a workspace's jobs are executed, retained
// from the source system's workspace configuration.
type ExecutionMode string

const (
	ExecutionModeLocal  ExecutionMode = "local"
	ExecutionModeRemote ExecutionMode = "remote"
)

// JobStatus is a job's lifecycle state.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// AuditFields is embedded in every entity that tracks who created or last
// touched it. These are plain serializable attributes, unrelated to any
// relationship.
type AuditFields struct {
	CreatedDate *time.Time `json:"createdDate,omitempty" db:"created_date"`
	CreatedBy   string     `json:"createdBy,omitempty"   db:"created_by"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty" db:"updated_date"`
	UpdatedBy   string     `json:"updatedBy,omitempty"   db:"updated_by"`
}

// Organization — table "organization". HasMany Workspaces.
type Organization struct {
	AuditFields
	ID          uuid.UUID    `json:"id"          db:"id"`
	Name        string       `json:"name"        db:"name"`
	Description string       `json:"description" db:"description"`
	Disabled    bool         `json:"disabled"    db:"disabled"`
	Workspaces  []*Workspace `json:"-"           db:"-"`
}

// Workspace — table "workspace". BelongsTo Organization (field + via_field);
// HasMany Jobs.
type Workspace struct {
	AuditFields
	ID               uuid.UUID     `json:"id"               db:"id"`
	Name             string        `json:"name"              db:"name"`
	Description      string        `json:"description"      db:"description"`
	Source           string        `json:"source"            db:"source"`
	Branch           string        `json:"branch"            db:"branch"`
	Locked           bool          `json:"locked"            db:"locked"`
	ExecutionMode    ExecutionMode `json:"executionMode"     db:"execution_mode"`
	OrganizationID   uuid.UUID     `json:"organizationId"    db:"organization_id"`
	Organization     *Organization `json:"-"                 db:"-"`
	Jobs             []*Job        `json:"-"                 db:"-"`
}

// Job — table "job" (integer PK, auto-increment). BelongsTo Workspace via
// WorkspaceID only — the Workspace navigation field is intentionally never
// populated by any loader, to exercise the via-field-only linkage path.
// BelongsTo Owner *Team.
type Job struct {
	AuditFields
	ID          int       `json:"id"          db:"id"`
	Comments    string    `json:"comments"    db:"comments"`
	Status      JobStatus `json:"status"      db:"status"`
	Output      string    `json:"output"      db:"output"`
	CommitID    string    `json:"commitId"    db:"commit_id"`
	WorkspaceID uuid.UUID `json:"workspaceId" db:"workspace_id"`
	Workspace   *Workspace `json:"-"          db:"-"`
	OwnerTeamID uuid.UUID  `json:"ownerTeamId" db:"owner_team_id"`
	Owner       *Team      `json:"-"           db:"-"`
}

// Team — table "team". HasMany Members []*User.
type Team struct {
	AuditFields
	ID             uuid.UUID `json:"id"             db:"id"`
	Name           string    `json:"name"           db:"name"`
	OrganizationID uuid.UUID `json:"organizationId" db:"organization_id"`
	Members        []*User   `json:"-"              db:"-"`
}

// User — table "user". HasMany Friends []*User — the direct-cycle fixture.
type User struct {
	AuditFields
	ID      uuid.UUID `json:"id"      db:"id"`
	Name    string    `json:"name"    db:"name"`
	Email   string    `json:"email"   db:"email"`
	TeamID  uuid.UUID `json:"teamId"  db:"team_id"`
	Friends []*User   `json:"-"       db:"-"`
}
