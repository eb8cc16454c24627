//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/errors"
	"chat-core/events"
	"chat-core/moderation"
	"chat-core/repositories"
	"chat-core/search"
	"context"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var validate = validator.New()

type CreateConversationCommand struct {
	Type         domain.ConversationType `validate:"required,oneof=ONE_TO_ONE GROUP"`
	Participants []uuid.UUID             `validate:"required,min=1"`
}

type SendMessageCommand struct {
	ConversationID uuid.UUID          `validate:"required"`
	SenderID       uuid.UUID          `validate:"required"`
	Content        string             `validate:"required"`
	Type           domain.MessageType `validate:"required,oneof=TEXT IMAGE FILE AUDIO VIDEO"`
}

type EditMessageCommand struct {
	MessageID uuid.UUID `validate:"required"`
	CallerID  uuid.UUID `validate:"required"`
	Content   string    `validate:"required"`
}

type AddAttachmentCommand struct {
	MessageID  uuid.UUID `validate:"required"`
	CallerID   uuid.UUID `validate:"required"`
	FileName   string    `validate:"required"`
	Data       []byte    `validate:"required"`
	StorageURL string    `validate:"required"`
}

type LoadHistoryCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	CallerID       uuid.UUID `validate:"required"`
	Page           int       `validate:"gte=0"`
	Size           int       `validate:"gt=0,lte=100"`
}

type SearchMessagesCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	CallerID       uuid.UUID `validate:"required"`
	Terms          string    `validate:"required"`
	Limit          int       `validate:"gt=0,lte=50"`
}

type IChatService interface {
	CreateConversation(ctx context.Context, cmd CreateConversationCommand) (ConversationDTO, error)
	DeleteConversation(ctx context.Context, conversationID, callerID uuid.UUID) error
	AddParticipant(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, conversationID, callerID, userID uuid.UUID) error
	SendMessage(ctx context.Context, cmd SendMessageCommand) (MessageDTO, error)
	MarkMessageAsDelivered(ctx context.Context, messageID, callerID uuid.UUID) error
	MarkMessageAsRead(ctx context.Context, messageID, callerID uuid.UUID) error
	EditMessage(ctx context.Context, cmd EditMessageCommand) (MessageDTO, error)
	AddAttachment(ctx context.Context, cmd AddAttachmentCommand) (MessageDTO, error)
	DeleteMessage(ctx context.Context, messageID, callerID uuid.UUID) error
	LoadHistory(ctx context.Context, cmd LoadHistoryCommand) (repositories.Page[MessageDTO], error)
	SearchMessages(ctx context.Context, cmd SearchMessagesCommand) ([]MessageDTO, error)
}

// ChatService orchestrates the aggregates against the repositories.
// Every use case fails fast, in order: input validation, existence,
// authorization, business rule.
type ChatService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	publisher     events.IEventPublisher
	moderator     moderation.IModerator
	index         search.IMessageIndex
}

func NewChatService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	publisher events.IEventPublisher,
	moderator moderation.IModerator,
	index search.IMessageIndex,
) IChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		publisher:     publisher,
		moderator:     moderator,
		index:         index,
	}
}

func (s *ChatService) CreateConversation(_ context.Context, cmd CreateConversationCommand) (ConversationDTO, error) {
	if err := validateCommand(cmd); err != nil {
		return ConversationDTO{}, err
	}
	conversation, err := domain.NewConversation(cmd.Type, cmd.Participants)
	if err != nil {
		return ConversationDTO{}, err
	}
	if err := s.conversations.Save(conversation); err != nil {
		return ConversationDTO{}, err
	}
	return toConversationDTO(conversation), nil
}

func (s *ChatService) DeleteConversation(_ context.Context, conversationID, callerID uuid.UUID) error {
	conversation, err := s.conversations.FindByID(conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(callerID) {
		return errors.ErrNotParticipant
	}
	return s.conversations.Delete(conversationID)
}

func (s *ChatService) AddParticipant(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	conversation, err := s.conversations.FindByID(conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(callerID) {
		return errors.ErrNotParticipant
	}
	if err := conversation.AddParticipant(userID); err != nil {
		return err
	}
	return s.conversations.Save(conversation)
}

func (s *ChatService) RemoveParticipant(_ context.Context, conversationID, callerID, userID uuid.UUID) error {
	conversation, err := s.conversations.FindByID(conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(callerID) {
		return errors.ErrNotParticipant
	}
	if err := conversation.RemoveParticipant(userID); err != nil {
		return err
	}
	return s.conversations.Save(conversation)
}

// SendMessage persists the message first, then updates the conversation
// preview timestamp, then emits MessageSent. The two saves are independent;
// a failed timestamp update never takes the message down with it.
func (s *ChatService) SendMessage(_ context.Context, cmd SendMessageCommand) (MessageDTO, error) {
	if err := validateCommand(cmd); err != nil {
		return MessageDTO{}, err
	}

	// 1. Existence then authorization
	conversation, err := s.conversations.FindByID(cmd.ConversationID)
	if err != nil {
		return MessageDTO{}, err
	}
	if !conversation.HasParticipant(cmd.SenderID) {
		return MessageDTO{}, errors.ErrNotParticipant
	}

	// 2. Moderation happens before the content reaches disk
	content := cmd.Content
	if s.moderator != nil {
		content = s.moderator.Sanitize(content)
	}

	// 3. Create and persist the message in SENT state
	message, err := domain.NewMessage(cmd.ConversationID, cmd.SenderID, content, cmd.Type)
	if err != nil {
		return MessageDTO{}, err
	}
	if err := s.messages.Save(message); err != nil {
		return MessageDTO{}, err
	}

	// 4. Advisory preview timestamp, last-write-wins under concurrency
	conversation.UpdateLastMessageTime()
	if err := s.conversations.Save(conversation); err != nil {
		return MessageDTO{}, err
	}

	// 5. Fire-and-forget event after successful persistence
	s.publisher.Publish(event.MessageSent{
		Header:         event.NewHeader(event.MessageSentKind),
		MessageID:      message.ID(),
		ConversationID: message.ConversationID(),
		SenderID:       message.SenderID(),
		Content:        message.Content(),
		MessageType:    string(message.Type()),
		SentAt:         message.SentAt(),
	})

	return toMessageDTO(message), nil
}

func (s *ChatService) MarkMessageAsDelivered(_ context.Context, messageID, callerID uuid.UUID) error {
	message, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if message.SenderID() == callerID {
		return errors.ErrSenderSelfAck
	}

	before := message.Status()
	message.MarkAsDelivered()
	if message.Status() == before {
		// Already delivered or read: idempotent, nothing to persist or emit
		return nil
	}
	if err := s.messages.Save(message); err != nil {
		return err
	}

	s.publisher.Publish(event.MessageDelivered{
		Header:         event.NewHeader(event.MessageDeliveredKind),
		MessageID:      message.ID(),
		ConversationID: message.ConversationID(),
		RecipientID:    callerID,
		DeliveredAt:    *message.DeliveredAt(),
	})
	return nil
}

func (s *ChatService) MarkMessageAsRead(_ context.Context, messageID, callerID uuid.UUID) error {
	message, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	// A sender cannot acknowledge their own message
	if message.SenderID() == callerID {
		return errors.ErrSenderSelfRead
	}

	before := message.Status()
	message.MarkAsRead()
	if message.Status() == before {
		return nil
	}
	if err := s.messages.Save(message); err != nil {
		return err
	}

	s.publisher.Publish(event.MessageRead{
		Header:         event.NewHeader(event.MessageReadKind),
		MessageID:      message.ID(),
		ConversationID: message.ConversationID(),
		ReaderID:       callerID,
		ReadAt:         *message.ReadAt(),
	})
	return nil
}

func (s *ChatService) EditMessage(_ context.Context, cmd EditMessageCommand) (MessageDTO, error) {
	if err := validateCommand(cmd); err != nil {
		return MessageDTO{}, err
	}
	message, err := s.messages.FindByID(cmd.MessageID)
	if err != nil {
		return MessageDTO{}, err
	}
	if message.SenderID() != cmd.CallerID {
		return MessageDTO{}, errors.ErrNotSender
	}

	content := cmd.Content
	if s.moderator != nil {
		content = s.moderator.Sanitize(content)
	}
	if err := message.EditContent(content); err != nil {
		return MessageDTO{}, err
	}
	if err := s.messages.Save(message); err != nil {
		return MessageDTO{}, err
	}
	return toMessageDTO(message), nil
}

func (s *ChatService) AddAttachment(_ context.Context, cmd AddAttachmentCommand) (MessageDTO, error) {
	if err := validateCommand(cmd); err != nil {
		return MessageDTO{}, err
	}
	message, err := s.messages.FindByID(cmd.MessageID)
	if err != nil {
		return MessageDTO{}, err
	}
	if message.SenderID() != cmd.CallerID {
		return MessageDTO{}, errors.ErrNotSender
	}

	// The declared file name is not trusted; the type comes from the bytes
	fileType := mimetype.Detect(cmd.Data).String()
	attachment := domain.NewAttachment(message.ID(), cmd.FileName, fileType, int64(len(cmd.Data)), cmd.StorageURL)
	if err := message.AddAttachment(attachment); err != nil {
		return MessageDTO{}, err
	}
	if err := s.messages.Save(message); err != nil {
		return MessageDTO{}, err
	}
	return toMessageDTO(message), nil
}

func (s *ChatService) DeleteMessage(_ context.Context, messageID, callerID uuid.UUID) error {
	message, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if message.SenderID() != callerID {
		return errors.ErrNotSender
	}
	return s.messages.Delete(messageID)
}

// LoadHistory returns one page of the conversation, newest first.
func (s *ChatService) LoadHistory(_ context.Context, cmd LoadHistoryCommand) (repositories.Page[MessageDTO], error) {
	if err := validateCommand(cmd); err != nil {
		return repositories.Page[MessageDTO]{}, err
	}
	conversation, err := s.conversations.FindByID(cmd.ConversationID)
	if err != nil {
		return repositories.Page[MessageDTO]{}, err
	}
	if !conversation.HasParticipant(cmd.CallerID) {
		return repositories.Page[MessageDTO]{}, errors.ErrNotParticipant
	}

	page, err := s.messages.FindByConversation(cmd.ConversationID, cmd.Page, cmd.Size)
	if err != nil {
		return repositories.Page[MessageDTO]{}, err
	}
	return repositories.Map(page, toMessageDTO), nil
}

func (s *ChatService) SearchMessages(ctx context.Context, cmd SearchMessagesCommand) ([]MessageDTO, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	conversation, err := s.conversations.FindByID(cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(cmd.CallerID) {
		return nil, errors.ErrNotParticipant
	}

	ids, err := s.index.Search(ctx, cmd.ConversationID, cmd.Terms, cmd.Limit)
	if err != nil {
		return nil, err
	}

	// The index can be ahead of or behind the store; missing ids are skipped
	var result []MessageDTO
	for _, id := range ids {
		message, err := s.messages.FindByID(id)
		if err != nil || message.Deleted() {
			continue
		}
		result = append(result, toMessageDTO(message))
	}
	return result, nil
}

// validateCommand maps validator violations into the field-level
// ValidationError of the error taxonomy.
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if errors.As(err, &violations) {
		fields := lo.SliceToMap(violations, func(v validator.FieldError) (string, string) {
			return v.Field(), v.Tag()
		})
		return &errors.ValidationError{Fields: fields}
	}
	return err
}
