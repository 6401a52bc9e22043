package service

import "oqunet/internal/model"

// owned is any resource administered by a single user: a community by
// its owner, a book by the owner of its community.
type owned interface {
	OwnerUserID() *uint64
}

// canManage is the one management rule shared by every owner-scoped
// operation: admins always may, otherwise only the owning user.
func canManage(actor *model.User, res owned) bool {
	if actor.IsAdmin() {
		return true
	}
	owner := res.OwnerUserID()
	return owner != nil && *owner == actor.ID
}
