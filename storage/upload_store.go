package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFile - расширение не из списка или файл больше лимита.
var ErrInvalidFile = errors.New("invalid file")

var DefaultResumeExtensions = []string{".pdf", ".doc", ".docx"}

// UploadStore validates a file and hands it to a FileUploader under a fresh unique key.
type UploadStore struct {
	uploader FileUploader
	allowed  map[string]struct{}
	maxSize  int64
	prefix   string
}

func NewUploadStore(uploader FileUploader, prefix string, allowedExt []string, maxSize int64) *UploadStore {
	allowed := make(map[string]struct{}, len(allowedExt))
	for _, ext := range allowedExt {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &UploadStore{
		uploader: uploader,
		allowed:  allowed,
		maxSize:  maxSize,
		prefix:   strings.Trim(prefix, "/"),
	}
}

// Store returns the opaque key of the saved object.
func (s *UploadStore) Store(ctx context.Context, ownerID int, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := s.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: file type %q is not allowed, allowed: %s", ErrInvalidFile, ext, s.allowedList())
	}

	// Читаем на байт больше лимита, чтобы отличить "ровно max" от "больше".
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n > s.maxSize {
		return "", fmt.Errorf("%w: file too large, max size is %dMB", ErrInvalidFile, s.maxSize/(1024*1024))
	}

	key := fmt.Sprintf("%d_%s%s", ownerID, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res, err := s.uploader.Upload(ctx, key, contentType, &buf)
	if err != nil {
		return "", err
	}
	return res.Key, nil
}

func (s *UploadStore) Discard(ctx context.Context, key string) error {
	return s.uploader.Delete(ctx, key)
}

func (s *UploadStore) PublicURL(key string) string {
	return s.uploader.GetPublicURL(key)
}

func (s *UploadStore) allowedList() string {
	list := make([]string, 0, len(s.allowed))
	for ext := range s.allowed {
		list = append(list, ext)
	}
	sort.Strings(list)
	return strings.Join(list, ", ")
}
