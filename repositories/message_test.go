package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// storedMessage writes one message with a controlled sentAt so ordering
// assertions are deterministic.
func storedMessage(req *require.Assertions, repo IMessageRepository, conversationID uuid.UUID, content string, sentAt time.Time) *domain.Message {
	message := domain.RestoreMessage(uuid.New(), conversationID, uuid.New(), content,
		domain.Text, domain.Sent, nil, sentAt, nil, nil, false, nil, false, nil)
	req.NoError(repo.Save(message))
	return message
}

func TestMessageRepository_SaveAndFindByID(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	message, err := domain.NewMessage(uuid.New(), uuid.New(), "hello", domain.Text)
	req.NoError(err)
	req.NoError(repo.Save(message))

	fetched, err := repo.FindByID(message.ID())
	req.NoError(err)
	req.Equal(message.ID(), fetched.ID())
	req.Equal("hello", fetched.Content())
	req.Equal(domain.Sent, fetched.Status())
	req.True(fetched.SentAt().Equal(message.SentAt()))
}

func TestMessageRepository_FindByID_NotFound(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	_, err := repo.FindByID(uuid.New())

	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestMessageRepository_UpdateKeepsSingleRecord(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())
	conversationID := uuid.New()

	message, err := domain.NewMessage(conversationID, uuid.New(), "hello", domain.Text)
	req.NoError(err)
	req.NoError(repo.Save(message))

	// Status change rewrites the same primary key (sentAt is immutable)
	message.MarkAsRead()
	req.NoError(repo.Save(message))

	page, err := repo.FindByConversation(conversationID, 0, 10)
	req.NoError(err)
	req.Len(page.Items, 1)
	req.Equal(domain.Read, page.Items[0].Status())
	req.NotNil(page.Items[0].DeliveredAt())
	req.NotNil(page.Items[0].ReadAt())
}

func TestMessageRepository_FindByConversation_NewestFirst(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())
	conversationID := uuid.New()
	base := time.Now().UTC()

	for i := 1; i <= 3; i++ {
		storedMessage(req, repo, conversationID, fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	// Another conversation must not leak into the scan
	storedMessage(req, repo, uuid.New(), "other", base)

	page, err := repo.FindByConversation(conversationID, 0, 10)
	req.NoError(err)

	contents := lo.Map(page.Items, func(m *domain.Message, _ int) string { return m.Content() })
	req.Equal([]string{"message 3", "message 2", "message 1"}, contents)
}

func TestMessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())
	conversationID := uuid.New()
	base := time.Now().UTC()

	for i := 1; i <= 10; i++ {
		storedMessage(req, repo, conversationID, fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	// --- PAGE 0 ---
	page0, err := repo.FindByConversation(conversationID, 0, 5)
	req.NoError(err)
	req.Len(page0.Items, 5)
	req.Equal("message 10", page0.Items[0].Content())
	req.Equal("message 6", page0.Items[4].Content())
	req.Equal(10, page0.TotalElements)
	req.Equal(2, page0.TotalPages)
	req.True(page0.First)
	req.False(page0.Last)

	// --- PAGE 1 ---
	page1, err := repo.FindByConversation(conversationID, 1, 5)
	req.NoError(err)
	req.Len(page1.Items, 5)
	req.Equal("message 5", page1.Items[0].Content())
	req.Equal("message 1", page1.Items[4].Content())
	req.False(page1.First)
	req.True(page1.Last)

	// --- PAST THE END ---
	page2, err := repo.FindByConversation(conversationID, 2, 5)
	req.NoError(err)
	req.Empty(page2.Items)
	req.Equal(10, page2.TotalElements)
}

func TestMessageRepository_Pagination_EmptyConversation(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	page, err := repo.FindByConversation(uuid.New(), 0, 5)

	req.NoError(err)
	req.Empty(page.Items)
	req.Equal(0, page.TotalElements)
	// ceil(0/5) = 0 pages
	req.Equal(0, page.TotalPages)
	req.True(page.First)
	req.True(page.Last)
}

func TestMessageRepository_Pagination_InvalidArgs(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	_, err := repo.FindByConversation(uuid.New(), -1, 5)
	req.True(errors.IsValidation(err))

	_, err = repo.FindByConversation(uuid.New(), 0, 0)
	req.True(errors.IsValidation(err))
}

func TestMessageRepository_SoftDelete(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())
	conversationID := uuid.New()
	base := time.Now().UTC()

	kept := storedMessage(req, repo, conversationID, "kept", base)
	doomed := storedMessage(req, repo, conversationID, "doomed", base.Add(time.Minute))

	req.NoError(repo.Delete(doomed.ID()))

	// Gone from history scans and excluded from totals
	page, err := repo.FindByConversation(conversationID, 0, 10)
	req.NoError(err)
	req.Len(page.Items, 1)
	req.Equal(kept.ID(), page.Items[0].ID())
	req.Equal(1, page.TotalElements)

	// Still reachable by id, flagged deleted
	fetched, err := repo.FindByID(doomed.ID())
	req.NoError(err)
	req.True(fetched.Deleted())
	req.NotNil(fetched.DeletedAt())
}

func TestMessageRepository_Delete_NotFound(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	err := repo.Delete(uuid.New())

	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestMessageRepository_AttachmentsRoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestDB(t), slog.Default())

	message, err := domain.NewMessage(uuid.New(), uuid.New(), "see attached", domain.File)
	req.NoError(err)
	attachment := domain.NewAttachment(message.ID(), "report.pdf", "application/pdf", 2048, "s3://bucket/report.pdf")
	req.NoError(message.AddAttachment(attachment))
	req.NoError(repo.Save(message))

	fetched, err := repo.FindByID(message.ID())
	req.NoError(err)
	req.Len(fetched.Attachments(), 1)
	req.Equal(attachment.ID, fetched.Attachments()[0].ID)
	req.Equal("application/pdf", fetched.Attachments()[0].FileType)
	req.Equal(int64(2048), fetched.Attachments()[0].FileSize)
}
