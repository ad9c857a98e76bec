package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkerispir/jsonapi-codec/contract"
	"github.com/ilkerispir/jsonapi-codec/internal/api/model"
	"github.com/ilkerispir/jsonapi-codec/internal/api/registry"
	"github.com/ilkerispir/jsonapi-codec/internal/api/repository"
)

func TestBuildResolverRegistersAllResourceTypes(t *testing.T) {
	r := registry.BuildResolver()

	for _, name := range []string{"organizations", "workspaces", "jobs", "teams", "users"} {
		c, ok := r.ResolveName(name)
		require.True(t, ok, "expected %s to be registered", name)
		require.NotNil(t, c.IDField(), "%s must have an Id field", name)
	}
}

func TestJobWorkspaceRelationshipIsViaFieldOnly(t *testing.T) {
	r := registry.BuildResolver()
	jobs, ok := r.ResolveName("jobs")
	require.True(t, ok)

	rel := jobs.FindRelationship("workspace")
	require.NotNil(t, rel)
	assert.Nil(t, rel.Field, "jobs->workspace must stay via_field-only")
	require.NotNil(t, rel.ViaField)
	assert.Equal(t, "WorkspaceID", rel.ViaField.Name)
}

func TestJobOwnerRelationshipHasBothFieldAndViaField(t *testing.T) {
	r := registry.BuildResolver()
	jobs, ok := r.ResolveName("jobs")
	require.True(t, ok)

	rel := jobs.FindRelationship("owner")
	require.NotNil(t, rel)
	assert.Equal(t, contract.BelongsTo, rel.Kind)
	require.NotNil(t, rel.Field)
	require.NotNil(t, rel.ViaField)
	assert.Equal(t, "OwnerTeamID", rel.ViaField.Name)
}

func TestUsersFriendsIsSelfReferentialHasMany(t *testing.T) {
	r := registry.BuildResolver()
	users, ok := r.ResolveName("users")
	require.True(t, ok)

	rel := users.FindRelationship("friends")
	require.NotNil(t, rel)
	assert.Equal(t, contract.HasMany, rel.Kind)
	assert.Equal(t, users.RuntimeType, rel.RelatedTo)
}

func TestRegisterAllWiresEveryResourceToATable(t *testing.T) {
	repo := repository.NewGenericRepository(nil)
	registry.RegisterAll(repo)

	tables := map[string]string{
		"organizations": "organization",
		"workspaces":    "workspace",
		"jobs":          "job",
		"teams":         "team",
		"users":         "user",
	}
	for resourceType, table := range tables {
		meta, ok := repo.GetMeta(resourceType)
		require.True(t, ok, "expected %s to be registered", resourceType)
		assert.Equal(t, table, meta.Table)
		assert.Equal(t, "id", meta.PKColumn)
	}
}

func TestChildRelationsOmitFriendsSelfJoin(t *testing.T) {
	children := registry.ChildRelations()
	_, hasFriends := children["users"]["friends"]
	assert.False(t, hasFriends, "friends has no FK-routable join table in this demo schema")

	workspaces := children["organizations"]["workspaces"]
	assert.Equal(t, "organization_id", workspaces.FKColumn)
	assert.Equal(t, "workspaces", workspaces.TargetType)
}

func TestParentRelationsCoverBelongsToWithNavigationField(t *testing.T) {
	parents := registry.ParentRelations()

	// jobs->workspace is via_field-only so it must NOT appear here; only
	// jobs->owner, which has a navigation Field, does.
	_, hasWorkspace := parents["jobs"]["workspace"]
	assert.False(t, hasWorkspace)

	owner, hasOwner := parents["jobs"]["owner"]
	require.True(t, hasOwner)
	assert.Equal(t, "OwnerTeamID", owner.FKField)
	assert.Equal(t, "teams", owner.TargetType)
}

func TestOrganizationWorkspaceModelShapeMatchesRegistry(t *testing.T) {
	r := registry.BuildResolver()
	workspaces, ok := r.ResolveName("workspaces")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(model.Workspace{}), workspaces.RuntimeType)
}
