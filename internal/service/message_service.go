package service

import (
	"errors"
	"log"

	"oqunet/internal/model"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/mysql"

	"gorm.io/gorm"
)

// MessageService is the mailbox: append-only rows keyed by recipient,
// mutated only to flip the read flag.
type MessageService struct {
	db   *gorm.DB
	mail pkg.SMTPConfig
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// SetMailer enables best-effort notification mail on new messages.
func (s *MessageService) SetMailer(cfg pkg.SMTPConfig) {
	s.mail = cfg
}

type SendMessageParams struct {
	ToUserID    uint64
	BookID      uint64
	MessageType string
	Content     string
}

// MyMessages returns the actor's mailbox, newest first.
func (s *MessageService) MyMessages(actor *model.User) ([]model.Message, error) {
	return (&mysql.MessageRepository{DB: s.db}).ListByRecipient(actor.ID)
}

// MarkAsRead flips the read flag; only the recipient may.
func (s *MessageService) MarkAsRead(actor *model.User, messageID uint64) error {
	messages := &mysql.MessageRepository{DB: s.db}
	msg, err := messages.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newErr(KindNotFound, "message not found")
		}
		return err
	}
	if msg.ToUserID != actor.ID {
		return newErr(KindForbidden, "this message is not addressed to you")
	}
	return messages.MarkRead(msg.ID)
}

func (s *MessageService) UnreadCount(actor *model.User) (int64, error) {
	return (&mysql.MessageRepository{DB: s.db}).CountUnread(actor.ID)
}

// Send creates a message about a book. A transfer_code message gets a
// generated 6-digit code; redeeming codes is a reserved flow and not
// implemented.
func (s *MessageService) Send(actor *model.User, p SendMessageParams) (*model.Message, error) {
	if !model.ValidMessageType(p.MessageType) {
		return nil, newErr(KindValidation, "unknown message type")
	}
	if p.Content == "" {
		return nil, newErr(KindValidation, "content is required")
	}

	books := &mysql.BookRepository{DB: s.db}
	book, err := books.FindByID(p.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "book not found")
		}
		return nil, err
	}
	users := &mysql.UserRepository{DB: s.db}
	recipient, err := users.FindByID(p.ToUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(KindNotFound, "user not found")
		}
		return nil, err
	}

	msg := &model.Message{
		FromUserID:  actor.ID,
		ToUserID:    recipient.ID,
		BookID:      book.ID,
		MessageType: p.MessageType,
		Content:     p.Content,
	}
	if p.MessageType == model.MessageTypeTransferCode {
		code, err := pkg.RandDigits(pkg.TransferCodeLen)
		if err != nil {
			return nil, err
		}
		msg.TransferCode = code
	}
	if err := (&mysql.MessageRepository{DB: s.db}).Create(msg); err != nil {
		return nil, err
	}

	if s.mail.Enabled() {
		body := pkg.MessageNotificationHTML(actor.Name, book.Title, p.Content)
		if err := pkg.SendEmail(s.mail, recipient.Email, "New message on OquNet", body); err != nil {
			log.Printf("notification mail to %s not sent: %v", recipient.Email, err)
		}
	}
	return msg, nil
}
