package service

import (
	"testing"

	"oqunet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)

	communityA := createCommunity(t, db, "A", "AAAA", nil)
	communityB := createCommunity(t, db, "B", "BBBB", nil)
	require.NoError(t, db.Create(&model.Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science fiction", CommunityID: communityA.ID, BorrowDays: 14}).Error)
	require.NoError(t, db.Create(&model.Book{Title: "Dune Messiah", Author: "Frank Herbert", Genre: "Science fiction", CommunityID: communityB.ID, BorrowDays: 14}).Error)
	require.NoError(t, db.Create(&model.Book{Title: "Emma", Author: "Jane Austen", Genre: "Romance", CommunityID: communityA.ID, BorrowDays: 14}).Error)

	admin := createUser(t, db, "root", model.RoleAdmin, nil)
	member := createUser(t, db, "alice", model.RoleUser, &communityA.ID)
	drifter := createUser(t, db, "bob", model.RoleUser, nil)

	// Admins search everything; the title match is case-insensitive.
	books, err := svc.Books(admin, "dune", "")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// Members are scoped to their community.
	books, err = svc.Books(member, "dune", "")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	// Author matching works the same way.
	books, err = svc.Books(member, "austen", "")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	books, err = svc.Books(member, "", "Romance")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	books, err = svc.Books(member, "", "all")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// No community, nothing to see.
	books, err = svc.Books(drifter, "", "")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestSearchUsersAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)

	admin := createUser(t, db, "root", model.RoleAdmin, nil)
	createUser(t, db, "alice", model.RoleUser, nil)
	member := createUser(t, db, "bob", model.RoleUser, nil)

	_, err := svc.Users(member, "alice")
	assert.Equal(t, KindForbidden, KindOf(err))

	users, err := svc.Users(admin, "alice")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)

	assert.NotEmpty(t, svc.GenreList())
}
