package authz

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection, one in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Project{}, &models.Membership{}, &models.Task{}))

	return gdb
}

func seed(t *testing.T, gdb *gorm.DB) (owner, member, outsider models.User, project models.Project) {
	t.Helper()

	owner = models.User{Email: "owner@x.com", PasswordHash: "x"}
	member = models.User{Email: "member@x.com", PasswordHash: "x"}
	outsider = models.User{Email: "outsider@x.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&owner).Error)
	require.NoError(t, gdb.Create(&member).Error)
	require.NoError(t, gdb.Create(&outsider).Error)

	project = models.Project{Name: "Sprint", OwnerID: owner.ID}
	require.NoError(t, gdb.Create(&project).Error)
	require.NoError(t, gdb.Create(&models.Membership{UserID: owner.ID, ProjectID: project.ID}).Error)
	require.NoError(t, gdb.Create(&models.Membership{UserID: member.ID, ProjectID: project.ID}).Error)

	return owner, member, outsider, project
}

func TestIsMember(t *testing.T) {
	gdb := openTestDB(t)
	owner, member, outsider, project := seed(t, gdb)

	for _, u := range []models.User{owner, member} {
		ok, err := IsMember(gdb, u.ID, project.ID)
		require.NoError(t, err)
		assert.True(t, ok, "expected %s to be a member", u.Email)
	}

	ok, err := IsMember(gdb, outsider.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequireMember(t *testing.T) {
	gdb := openTestDB(t)
	_, member, outsider, project := seed(t, gdb)

	assert.NoError(t, RequireMember(gdb, member.ID, project.ID))
	assert.ErrorIs(t, RequireMember(gdb, outsider.ID, project.ID), ErrNotMember)

	// Unknown project looks the same as non-membership.
	assert.ErrorIs(t, RequireMember(gdb, member.ID, project.ID+1000), ErrNotMember)
}

func TestRequireOwner(t *testing.T) {
	gdb := openTestDB(t)
	owner, member, _, project := seed(t, gdb)

	got, err := RequireOwner(gdb, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	// A plain member is not enough.
	_, err = RequireOwner(gdb, member.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = RequireOwner(gdb, owner.ID, project.ID+1000)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMembershipUniqueIndex(t *testing.T) {
	gdb := openTestDB(t)
	_, member, _, project := seed(t, gdb)

	err := gdb.Create(&models.Membership{UserID: member.ID, ProjectID: project.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, gdb.Model(&models.Membership{}).
		Where("user_id = ? AND project_id = ?", member.ID, project.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
