package entity

import (
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
)

// UploadedFile is one document waiting in the processing queue.
type UploadedFile struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	MimeType string               `json:"mimeType"`
	Size     int64                `json:"size"`
	Pages    int                  `json:"pages,omitempty"`
	Status   constants.FileStatus `json:"status"`
	AddedAt  time.Time            `json:"addedAt"`
	Data     []byte               `json:"-"`
}
