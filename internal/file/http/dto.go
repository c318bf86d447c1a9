package http

import "github.com/nekogravitycat/rental-marketplace-backend/internal/file"

type FileUploadResponse struct {
	FileID       string  `json:"file_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	ContentType  string  `json:"content_type"`
	Size         int64   `json:"size"`
}

func NewFileUploadResponse(f *file.File) FileUploadResponse {
	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}
	return FileUploadResponse{
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
		ContentType:  f.ContentType,
		Size:         f.Size,
	}
}
