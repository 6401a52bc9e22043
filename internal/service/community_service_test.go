package service

import (
	"testing"
	"time"

	"oqunet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommunity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	alice := createUser(t, db, "alice", model.RoleUser, nil)

	_, _, err := svc.Create(alice, "", "DORM1", "")
	assert.Equal(t, KindValidation, KindOf(err))

	_, _, err = svc.Create(alice, "Dorm", "ab", "")
	assert.Equal(t, KindInvalidAccessCode, KindOf(err))

	community, user, err := svc.Create(alice, "Dorm", "abc1", "first floor")
	require.NoError(t, err)
	assert.Equal(t, "ABC1", community.AccessCode)
	require.NotNil(t, community.OwnerID)
	assert.Equal(t, alice.ID, *community.OwnerID)
	require.NotNil(t, community.Owner)
	assert.Equal(t, "alice", community.Owner.Name)

	// The creator is auto-joined.
	require.NotNil(t, user.CommunityID)
	assert.Equal(t, community.ID, *user.CommunityID)

	// A case-insensitive duplicate code creates nothing.
	bob := createUser(t, db, "bob", model.RoleUser, nil)
	_, _, err = svc.Create(bob, "Other", "ABC1", "")
	assert.Equal(t, KindDuplicateAccessCode, KindOf(err))
	_, _, err = svc.Create(bob, "Other", "abc1", "")
	assert.Equal(t, KindDuplicateAccessCode, KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.Community{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddCommunityAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	alice := createUser(t, db, "alice", model.RoleUser, nil)
	admin := createUser(t, db, "root", model.RoleAdmin, nil)

	_, err := svc.Add(alice, "Legacy", "CODE1", "")
	assert.Equal(t, KindForbidden, KindOf(err))

	community, err := svc.Add(admin, "Legacy", "code1", "")
	require.NoError(t, err)
	assert.Equal(t, "CODE1", community.AccessCode)
	assert.Nil(t, community.OwnerID)
}

func TestJoinCommunity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	community := createCommunity(t, db, "Dorm", "abc1", nil)
	alice := createUser(t, db, "alice", model.RoleUser, nil)

	_, err := svc.Join(alice, "WRONG")
	assert.Equal(t, KindInvalidCode, KindOf(err))

	// Codes match case-insensitively.
	user, err := svc.Join(alice, "abc1")
	require.NoError(t, err)
	require.NotNil(t, user.CommunityID)
	assert.Equal(t, community.ID, *user.CommunityID)
	require.NotNil(t, user.Community)
	assert.Equal(t, "Dorm", user.Community.Name)

	_, err = svc.Join(user, "ABC1")
	assert.Equal(t, KindAlreadyMember, KindOf(err))
}

func TestLeaveCommunity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	community := createCommunity(t, db, "Dorm", "ABC1", nil)
	alice := createUser(t, db, "alice", model.RoleUser, &community.ID)
	drifter := createUser(t, db, "bob", model.RoleUser, nil)
	book := createBook(t, db, "Dune", community.ID, 14)

	_, err := svc.Leave(drifter)
	assert.Equal(t, KindNotMember, KindOf(err))

	holdBook(t, db, book.ID, alice.ID, time.Now())
	_, err = svc.Leave(alice)
	assert.Equal(t, KindHasActiveLoan, KindOf(err))
	assert.Contains(t, err.Error(), "Dune")
	require.NotNil(t, reloadUser(t, db, alice.ID).CommunityID)

	require.NoError(t, db.Model(&model.Book{}).Where("id = ?", book.ID).
		Updates(map[string]any{"current_holder_id": nil, "borrowed_at": nil}).Error)

	user, err := svc.Leave(reloadUser(t, db, alice.ID))
	require.NoError(t, err)
	assert.Nil(t, user.CommunityID)
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	owner := createUser(t, db, "owner", model.RoleUser, nil)
	community := createCommunity(t, db, "Dorm", "ABC1", &owner.ID)
	require.NoError(t, db.Model(owner).Update("community_id", community.ID).Error)
	owner = reloadUser(t, db, owner.ID)

	member := createUser(t, db, "bob", model.RoleUser, &community.ID)
	outsider := createUser(t, db, "eve", model.RoleUser, nil)
	book := createBook(t, db, "Dune", community.ID, 14)

	err := svc.RemoveMember(member, community.ID, owner.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	err = svc.RemoveMember(owner, community.ID, outsider.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = svc.RemoveMember(owner, community.ID, owner.ID)
	assert.Equal(t, KindCannotRemoveOwner, KindOf(err))

	holdBook(t, db, book.ID, member.ID, time.Now())
	err = svc.RemoveMember(owner, community.ID, member.ID)
	assert.Equal(t, KindHasActiveLoan, KindOf(err))
	require.NotNil(t, reloadUser(t, db, member.ID).CommunityID)

	require.NoError(t, db.Model(&model.Book{}).Where("id = ?", book.ID).
		Updates(map[string]any{"current_holder_id": nil, "borrowed_at": nil}).Error)

	require.NoError(t, svc.RemoveMember(owner, community.ID, member.ID))
	assert.Nil(t, reloadUser(t, db, member.ID).CommunityID)
}

func TestDeleteCommunity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)
	bookSvc := NewBookService(db)

	owner := createUser(t, db, "owner", model.RoleUser, nil)
	community := createCommunity(t, db, "Dorm", "ABC1", &owner.ID)
	require.NoError(t, db.Model(owner).Update("community_id", community.ID).Error)
	owner = reloadUser(t, db, owner.ID)

	member := createUser(t, db, "bob", model.RoleUser, &community.ID)
	book := createBook(t, db, "Dune", community.ID, 14)

	err := svc.Delete(member, community.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	err = svc.Delete(owner, 404)
	assert.Equal(t, KindNotFound, KindOf(err))

	// An open loan blocks deletion.
	_, err = bookSvc.Borrow(member, book.ID)
	require.NoError(t, err)
	err = svc.Delete(owner, community.ID)
	assert.Equal(t, KindHasActiveLoan, KindOf(err))

	_, err = bookSvc.ReturnMyBook(member, book.ID)
	require.NoError(t, err)

	// With no open loans the delete cascades: books and their history
	// go, members are detached.
	require.NoError(t, svc.Delete(owner, community.ID))

	var books, histories, communities int64
	require.NoError(t, db.Model(&model.Book{}).Count(&books).Error)
	require.NoError(t, db.Model(&model.BookHistory{}).Count(&histories).Error)
	require.NoError(t, db.Model(&model.Community{}).Count(&communities).Error)
	assert.Zero(t, books)
	assert.Zero(t, histories)
	assert.Zero(t, communities)
	assert.Nil(t, reloadUser(t, db, member.ID).CommunityID)
	assert.Nil(t, reloadUser(t, db, owner.ID).CommunityID)
}

func TestCommunityListScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	owner := createUser(t, db, "owner", model.RoleUser, nil)
	createCommunity(t, db, "Mine", "AAAA", &owner.ID)
	createCommunity(t, db, "Other", "BBBB", nil)
	admin := createUser(t, db, "root", model.RoleAdmin, nil)

	all, err := svc.List(admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := svc.List(owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Mine", owned[0].Name)

	// The public directory never exposes access codes.
	public, err := svc.ListPublic()
	require.NoError(t, err)
	require.Len(t, public, 2)
	for _, c := range public {
		assert.Empty(t, c.AccessCode)
	}
}

func TestMembersListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	owner := createUser(t, db, "owner", model.RoleUser, nil)
	community := createCommunity(t, db, "Dorm", "ABC1", &owner.ID)
	require.NoError(t, db.Model(owner).Update("community_id", community.ID).Error)
	createUser(t, db, "bob", model.RoleUser, &community.ID)
	stranger := createUser(t, db, "eve", model.RoleUser, nil)

	_, err := svc.Members(stranger, community.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	members, err := svc.Members(reloadUser(t, db, owner.ID), community.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
