package domain

import (
	"strings"

	"github.com/google/uuid"
)

// MaxAttachmentSize is the per-attachment byte cap (50 MiB).
const MaxAttachmentSize int64 = 50 << 20

const maxFilenameLength = 255

// AllowedMimeTypes is the closed set of attachment media types. Treated as
// configuration: membership changes happen here and nowhere else.
var AllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
	"text/csv",
}

// AttachmentInput is the unvalidated attachment payload received from the
// request layer. The media itself is uploaded out of band; only metadata
// travels through the messaging core.
type AttachmentInput struct {
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Filename  string `json:"filename"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

type Attachment struct {
	ID        string `bson:"id" json:"id"`
	URL       string `bson:"url" json:"url"`
	MimeType  string `bson:"mime_type" json:"mime_type"`
	SizeBytes int64  `bson:"size_bytes" json:"size_bytes"`
	Filename  string `bson:"filename" json:"filename"`
	Width     int    `bson:"width,omitempty" json:"width,omitempty"`
	Height    int    `bson:"height,omitempty" json:"height,omitempty"`
}

// NewAttachment validates one attachment's metadata and assigns it an id.
func NewAttachment(in AttachmentInput) (Attachment, error) {
	if strings.TrimSpace(in.URL) == "" {
		return Attachment{}, ErrInvalidAttachment.WithMessage("attachment %q has no url", in.Filename)
	}
	if !mimeAllowed(in.MimeType) {
		return Attachment{}, ErrInvalidAttachment.WithMessage("mime type %q is not allowed", in.MimeType)
	}
	if in.SizeBytes <= 0 || in.SizeBytes > MaxAttachmentSize {
		return Attachment{}, ErrInvalidAttachment.WithMessage("attachment %q size %d out of range", in.Filename, in.SizeBytes)
	}
	name := strings.TrimSpace(in.Filename)
	if name == "" || len(name) > maxFilenameLength {
		return Attachment{}, ErrInvalidAttachment.WithMessage("attachment filename missing or too long")
	}
	return Attachment{
		ID:        uuid.New().String(),
		URL:       in.URL,
		MimeType:  in.MimeType,
		SizeBytes: in.SizeBytes,
		Filename:  name,
		Width:     in.Width,
		Height:    in.Height,
	}, nil
}

func mimeAllowed(mime string) bool {
	for _, m := range AllowedMimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}
