package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is an immutable value object owned by its message.
type Attachment struct {
	ID         uuid.UUID
	MessageID  uuid.UUID
	FileName   string
	FileType   string
	FileSize   int64
	StorageURL string
	UploadedAt time.Time
}

func NewAttachment(messageID uuid.UUID, fileName, fileType string, fileSize int64, storageURL string) Attachment {
	return Attachment{
		ID:         uuid.New(),
		MessageID:  messageID,
		FileName:   fileName,
		FileType:   fileType,
		FileSize:   fileSize,
		StorageURL: storageURL,
		UploadedAt: time.Now().UTC(),
	}
}
