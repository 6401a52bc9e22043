package service

import (
	"testing"
	"time"

	"oqunet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	community := createCommunity(t, db, "Dorm", "ABC1", nil)
	alice := createUser(t, db, "alice", model.RoleUser, &community.ID)
	bob := createUser(t, db, "bob", model.RoleUser, &community.ID)
	book := createBook(t, db, "Dune", community.ID, 14)

	_, err := svc.Send(alice, SendMessageParams{
		ToUserID: bob.ID, BookID: book.ID, MessageType: "shout", Content: "hi",
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Send(alice, SendMessageParams{
		ToUserID: bob.ID, BookID: book.ID, MessageType: model.MessageTypeChat,
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Send(alice, SendMessageParams{
		ToUserID: bob.ID, BookID: 404, MessageType: model.MessageTypeChat, Content: "hi",
	})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.Send(alice, SendMessageParams{
		ToUserID: 404, BookID: book.ID, MessageType: model.MessageTypeChat, Content: "hi",
	})
	assert.Equal(t, KindNotFound, KindOf(err))

	msg, err := svc.Send(alice, SendMessageParams{
		ToUserID: bob.ID, BookID: book.ID,
		MessageType: model.MessageTypeTransferRequest, Content: "may I have it next?",
	})
	require.NoError(t, err)
	assert.False(t, msg.IsRead)
	assert.Empty(t, msg.TransferCode)

	// transfer_code messages carry a generated 6-digit code.
	msg, err = svc.Send(alice, SendMessageParams{
		ToUserID: bob.ID, BookID: book.ID,
		MessageType: model.MessageTypeTransferCode, Content: "your pickup code",
	})
	require.NoError(t, err)
	assert.Len(t, msg.TransferCode, 6)
}

func TestMailbox(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)

	community := createCommunity(t, db, "Dorm", "ABC1", nil)
	alice := createUser(t, db, "alice", model.RoleUser, &community.ID)
	bob := createUser(t, db, "bob", model.RoleUser, &community.ID)
	book := createBook(t, db, "Dune", community.ID, 14)

	now := time.Now()
	older := model.Message{
		FromUserID: alice.ID, ToUserID: bob.ID, BookID: book.ID,
		MessageType: model.MessageTypeChat, Content: "first",
		CreatedAt: now.Add(-time.Hour),
	}
	newer := model.Message{
		FromUserID: alice.ID, ToUserID: bob.ID, BookID: book.ID,
		MessageType: model.MessageTypeChat, Content: "second",
		CreatedAt: now,
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	// Newest first, sender and book joined, only the recipient's rows.
	inbox, err := svc.MyMessages(bob)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "second", inbox[0].Content)
	require.NotNil(t, inbox[0].FromUser)
	assert.Equal(t, "alice", inbox[0].FromUser.Name)
	require.NotNil(t, inbox[0].Book)
	assert.Equal(t, "Dune", inbox[0].Book.Title)

	empty, err := svc.MyMessages(alice)
	require.NoError(t, err)
	assert.Empty(t, empty)

	count, err := svc.UnreadCount(bob)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Only the recipient may mark a message read.
	assert.Equal(t, KindNotFound, KindOf(svc.MarkAsRead(bob, 404)))
	assert.Equal(t, KindForbidden, KindOf(svc.MarkAsRead(alice, older.ID)))

	require.NoError(t, svc.MarkAsRead(bob, older.ID))
	count, err = svc.UnreadCount(bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
