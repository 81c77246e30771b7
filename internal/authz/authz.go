// Package authz holds the authorization predicates shared by every
// project-scoped handler: membership for reads and writes, ownership for
// inviting members and deleting the project. Tasks carry no ACL of their
// own; callers resolve the task's project first and apply the membership
// check to that.
package authz

import (
	"errors"

	"github.com/taskdeck-dev/taskdeck/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotMember means the caller is authenticated but holds no
	// membership for the project.
	ErrNotMember = errors.New("not a member of this project")

	// ErrNotOwner means the caller may even be a member, but the
	// operation is reserved for the project owner.
	ErrNotOwner = errors.New("not the project owner")
)

// IsMember reports whether a membership row exists for (userID, projectID).
// This is the authorization predicate behind nearly every project-scoped
// operation.
func IsMember(db *gorm.DB, userID, projectID uint) (bool, error) {
	var count int64

	err := db.Model(&models.Membership{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// RequireMember returns ErrNotMember when the caller has no membership.
// Any other error is a storage failure.
func RequireMember(db *gorm.DB, userID, projectID uint) error {
	member, err := IsMember(db, userID, projectID)

	if err != nil {
		return err
	}

	if !member {
		return ErrNotMember
	}

	return nil
}

// RequireOwner loads the project and checks the caller owns it. Returns
// gorm.ErrRecordNotFound when the project is absent and ErrNotOwner when
// the caller is not the owner.
func RequireOwner(db *gorm.DB, userID, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := db.First(&project, projectID).Error; err != nil {
		return nil, err
	}

	if project.OwnerID != userID {
		return nil, ErrNotOwner
	}

	return &project, nil
}
