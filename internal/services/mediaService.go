package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/imaging"
	"github.com/khojapp/khoj-server/internal/storage"
	"github.com/khojapp/khoj-server/internal/utils"
)

// MaxImagesPerItem bounds the number of photos per posting.
const MaxImagesPerItem = 5

// MaxImageSize is the per-file upload limit (10MB).
const MaxImageSize = 10 << 20

// MediaService turns uploaded image files into stored URLs. It runs
// entirely before any item record is written, so a failed upload never
// leaves a partial item behind; an orphaned object at the store is an
// accepted leak.
type MediaService struct {
	store *storage.MediaStore
}

func NewMediaService(store *storage.MediaStore) *MediaService {
	return &MediaService{store: store}
}

// SaveImages validates, processes and uploads the given files
// concurrently, returning one URL per file in input order. Any failure
// fails the whole batch.
func (s *MediaService) SaveImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("images", "No images provided")
	}
	if len(files) > MaxImagesPerItem {
		return nil, apperr.Validation("images", fmt.Sprintf("At most %d images per item", MaxImagesPerItem))
	}

	// Validate and process everything up front; only then touch the store.
	processed := make([]*imaging.Result, len(files))
	for i, fh := range files {
		if fh.Size > MaxImageSize {
			return nil, apperr.Validation("images", fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename))
		}
		if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return nil, apperr.Validation("images", fmt.Sprintf("%s is not an image", fh.Filename))
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperr.Validation("images", fmt.Sprintf("Could not read %s", fh.Filename))
		}
		result, err := imaging.Process(f)
		f.Close()
		if err != nil {
			return nil, apperr.Validation("images", fmt.Sprintf("%s: %v", fh.Filename, err))
		}
		processed[i] = result
	}

	tasks := make([]utils.ParallelTask, len(processed))
	for i, p := range processed {
		p := p
		name := primitive.NewObjectID().Hex() + ".jpg"
		tasks[i] = func() (interface{}, error) {
			return s.store.Put(ctx, name, p.Data, p.ContentType)
		}
	}

	results, errs := utils.RunParallelTasks(tasks)
	for _, err := range errs {
		if err != nil {
			return nil, apperr.Upstream("Failed to upload images", err)
		}
	}

	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.(string)
	}
	return urls, nil
}
