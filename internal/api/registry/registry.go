// Package registry builds the contract.Resolver and repository.ResourceMeta
// registrations for the demo domain, grounded on the teacher's RegisterAll
// pattern: one explicit registration block per resource type.
package registry

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/ilkerispir/jsonapi-codec/contract"
	"github.com/ilkerispir/jsonapi-codec/internal/api/model"
	"github.com/ilkerispir/jsonapi-codec/internal/api/repository"
)

func reflectField(name string, t reflect.Type, opts contract.Options) *contract.Field {
	return &contract.Field{
		Name:         name,
		DeclaredType: t,
		Options:      opts,
		Accessor:     contract.NewReflectAccessor(name),
	}
}

// BuildResolver constructs the contract.Resolver for every resource type the
// demo serves, wiring each relationship shape named in the model package.
func BuildResolver() *contract.Resolver {
	r := contract.NewResolver()

	auditFields := func() []*contract.Field {
		return []*contract.Field{
			reflectField("CreatedDate", reflect.TypeOf((*time.Time)(nil)), contract.Default),
			reflectField("CreatedBy", reflect.TypeOf(""), contract.Default),
			reflectField("UpdatedDate", reflect.TypeOf((*time.Time)(nil)), contract.Default),
			reflectField("UpdatedBy", reflect.TypeOf(""), contract.Default),
		}
	}

	uuidT := reflect.TypeOf(uuid.UUID{})
	stringT := reflect.TypeOf("")
	intT := reflect.TypeOf(0)
	boolT := reflect.TypeOf(false)

	organizations := &contract.Contract{
		Name:        "organizations",
		RuntimeType: reflect.TypeOf(model.Organization{}),
		NewInstance: func() interface{} { return &model.Organization{} },
		Fields: append(auditFields(),
			reflectField("ID", uuidT, contract.Id|contract.Default),
			reflectField("Name", stringT, contract.Default),
			reflectField("Description", stringT, contract.Default),
			reflectField("Disabled", boolT, contract.Default),
		),
		Relationships: []*contract.Relationship{
			{
				Name:      "workspaces",
				Kind:      contract.HasMany,
				RelatedTo: reflect.TypeOf(model.Workspace{}),
				Field:     reflectField("Workspaces", reflect.TypeOf([]*model.Workspace{}), contract.Default),
			},
		},
	}

	workspaces := &contract.Contract{
		Name:        "workspaces",
		RuntimeType: reflect.TypeOf(model.Workspace{}),
		NewInstance: func() interface{} { return &model.Workspace{} },
		Fields: append(auditFields(),
			reflectField("ID", uuidT, contract.Id|contract.Default),
			reflectField("Name", stringT, contract.Default),
			reflectField("Description", stringT, contract.Default),
			reflectField("Source", stringT, contract.Default),
			reflectField("Branch", stringT, contract.Default),
			reflectField("Locked", boolT, contract.Default),
			reflectField("ExecutionMode", reflect.TypeOf(model.ExecutionMode("")), contract.Default),
			reflectField("OrganizationID", uuidT, contract.Default),
		),
		Relationships: []*contract.Relationship{
			{
				Name:      "organization",
				Kind:      contract.BelongsTo,
				RelatedTo: reflect.TypeOf(model.Organization{}),
				Field:     reflectField("Organization", reflect.TypeOf((*model.Organization)(nil)), contract.Default),
				ViaField:  reflectField("OrganizationID", uuidT, contract.Default),
			},
			{
				Name:      "jobs",
				Kind:      contract.HasMany,
				RelatedTo: reflect.TypeOf(model.Job{}),
				Field:     reflectField("Jobs", reflect.TypeOf([]*model.Job{}), contract.Default),
			},
		},
	}

	jobs := &contract.Contract{
		Name:        "jobs",
		RuntimeType: reflect.TypeOf(model.Job{}),
		NewInstance: func() interface{} { return &model.Job{} },
		Fields: append(auditFields(),
			reflectField("ID", intT, contract.Id|contract.Default),
			reflectField("Comments", stringT, contract.Default),
			reflectField("Status", reflect.TypeOf(model.JobStatus("")), contract.Default),
			reflectField("Output", stringT, contract.Default),
			reflectField("CommitID", stringT, contract.Default),
			reflectField("WorkspaceID", uuidT, contract.Default),
			reflectField("OwnerTeamID", uuidT, contract.Default),
		),
		Relationships: []*contract.Relationship{
			{
				// via_field-only: the Workspace navigation field is never
				// populated by the repository, so Field is intentionally
				// left nil — exercises the via-field-only linkage path.
				Name:      "workspace",
				Kind:      contract.BelongsTo,
				RelatedTo: reflect.TypeOf(model.Workspace{}),
				ViaField:  reflectField("WorkspaceID", uuidT, contract.Default),
			},
			{
				Name:      "owner",
				Kind:      contract.BelongsTo,
				RelatedTo: reflect.TypeOf(model.Team{}),
				Field:     reflectField("Owner", reflect.TypeOf((*model.Team)(nil)), contract.Default),
				ViaField:  reflectField("OwnerTeamID", uuidT, contract.Default),
			},
		},
	}

	teams := &contract.Contract{
		Name:        "teams",
		RuntimeType: reflect.TypeOf(model.Team{}),
		NewInstance: func() interface{} { return &model.Team{} },
		Fields: append(auditFields(),
			reflectField("ID", uuidT, contract.Id|contract.Default),
			reflectField("Name", stringT, contract.Default),
			reflectField("OrganizationID", uuidT, contract.Default),
		),
		Relationships: []*contract.Relationship{
			{
				Name:      "members",
				Kind:      contract.HasMany,
				RelatedTo: reflect.TypeOf(model.User{}),
				Field:     reflectField("Members", reflect.TypeOf([]*model.User{}), contract.Default),
			},
		},
	}

	users := &contract.Contract{
		Name:        "users",
		RuntimeType: reflect.TypeOf(model.User{}),
		NewInstance: func() interface{} { return &model.User{} },
		Fields: append(auditFields(),
			reflectField("ID", uuidT, contract.Id|contract.Default),
			reflectField("Name", stringT, contract.Default),
			reflectField("Email", stringT, contract.Default),
			reflectField("TeamID", uuidT, contract.Default),
		),
		Relationships: []*contract.Relationship{
			{
				Name:      "friends",
				Kind:      contract.HasMany,
				RelatedTo: reflect.TypeOf(model.User{}),
				Field:     reflectField("Friends", reflect.TypeOf([]*model.User{}), contract.Default),
			},
		},
	}

	r.Register(organizations)
	r.Register(workspaces)
	r.Register(jobs)
	r.Register(teams)
	r.Register(users)
	return r
}

// RegisterAll registers the repository.ResourceMeta for every resource type
// with repo, wiring each to its backing table.
func RegisterAll(repo *repository.GenericRepository) {
	repo.Register(&repository.ResourceMeta{
		Type:      "organizations",
		Table:     "organization",
		PKColumn:  "id",
		ModelType: reflect.TypeOf(model.Organization{}),
	})
	repo.Register(&repository.ResourceMeta{
		Type:      "workspaces",
		Table:     "workspace",
		PKColumn:  "id",
		ModelType: reflect.TypeOf(model.Workspace{}),
	})
	repo.Register(&repository.ResourceMeta{
		Type:      "jobs",
		Table:     "job",
		PKColumn:  "id",
		ModelType: reflect.TypeOf(model.Job{}),
	})
	repo.Register(&repository.ResourceMeta{
		Type:      "teams",
		Table:     "team",
		PKColumn:  "id",
		ModelType: reflect.TypeOf(model.Team{}),
	})
	repo.Register(&repository.ResourceMeta{
		Type:      "users",
		Table:     "user",
		PKColumn:  "id",
		ModelType: reflect.TypeOf(model.User{}),
	})
}

// ParentRelation describes a BelongsTo relationship's navigable side: which
// FK struct field carries the target's id, and which resource type it
// targets. This is DB-routing metadata the contract package deliberately
// does not carry; it lives here alongside the repository wiring instead.
type ParentRelation struct {
	FKField    string
	TargetType string
}

// ChildRelation describes a HasMany relationship's navigable side: the FK
// column on the child table that points back at the parent.
type ChildRelation struct {
	FKColumn   string
	TargetType string
}

// ParentRelations returns, per resource type, the BelongsTo relationships
// that can be hydrated by loading the FK target (i.e. those with a
// navigation Field, not via_field-only relationships like jobs->workspace).
func ParentRelations() map[string]map[string]ParentRelation {
	return map[string]map[string]ParentRelation{
		"workspaces": {
			"organization": {FKField: "OrganizationID", TargetType: "organizations"},
		},
		"jobs": {
			"owner": {FKField: "OwnerTeamID", TargetType: "teams"},
		},
	}
}

// ChildRelations returns, per resource type, the HasMany relationships that
// can be hydrated by listing the child table filtered by its FK column.
func ChildRelations() map[string]map[string]ChildRelation {
	return map[string]map[string]ChildRelation{
		"organizations": {
			"workspaces": {FKColumn: "organization_id", TargetType: "workspaces"},
		},
		"workspaces": {
			"jobs": {FKColumn: "workspace_id", TargetType: "jobs"},
		},
		"teams": {
			"members": {FKColumn: "team_id", TargetType: "users"},
		},
		// "friends" on users is intentionally absent: this demo schema has
		// no friendship join table, so that HasMany is exercised only by
		// the jsonapi package's own tests, not over HTTP.
	}
}
