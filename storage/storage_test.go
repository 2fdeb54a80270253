package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStore_RejectsExtension(t *testing.T) {
	disk, err := NewLocalDiskUploader(t.TempDir(), "/uploads")
	require.NoError(t, err)
	store := NewUploadStore(disk, "resumes", DefaultResumeExtensions, 1024)

	_, err = store.Store(context.Background(), 1, "cv.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrInvalidFile)
	assert.Contains(t, err.Error(), ".doc, .docx, .pdf")
}

func TestUploadStore_SizeLimit(t *testing.T) {
	disk, err := NewLocalDiskUploader(t.TempDir(), "/uploads")
	require.NoError(t, err)
	store := NewUploadStore(disk, "", DefaultResumeExtensions, 4)

	_, err = store.Store(context.Background(), 1, "cv.pdf", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrInvalidFile)

	key, err := store.Store(context.Background(), 1, "cv.PDF", strings.NewReader("1234"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "1_"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestUploadStore_StoreAndDiscard(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewLocalDiskUploader(dir, "/uploads/")
	require.NoError(t, err)
	store := NewUploadStore(disk, "resumes", DefaultResumeExtensions, 1024)
	ctx := context.Background()

	key, err := store.Store(ctx, 7, "Резюме.docx", strings.NewReader("content"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "resumes/7_"))
	assert.Equal(t, "/uploads/"+key, store.PublicURL(key))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	other, err := store.Store(ctx, 7, "Резюме.docx", strings.NewReader("content"))
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	require.NoError(t, store.Discard(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// повторное удаление не ошибка
	assert.NoError(t, store.Discard(ctx, key))
}

func TestLocalDisk_RejectsTraversal(t *testing.T) {
	disk, err := NewLocalDiskUploader(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = disk.Upload(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, errBadKey)
}

type fakeObjectAPI struct {
	put    *s3.PutObjectInput
	body   []byte
	delErr error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	f.body = buf.Bytes()
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, f.delErr
}

func TestR2Uploader_UploadAndURL(t *testing.T) {
	api := &fakeObjectAPI{}
	u := &r2Uploader{client: api, bucketName: "resumes", publicBaseURL: "https://cdn.example.com/files"}

	res, err := u.Upload(context.Background(), "resumes/1_a.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.com/files/resumes/1_a.pdf", res.Location)
	assert.Equal(t, "resumes", aws.ToString(api.put.Bucket))
	assert.Equal(t, "pdf", string(api.body))

	api.delErr = errors.New("boom")
	assert.Error(t, u.Delete(context.Background(), "resumes/1_a.pdf"))
}

func TestR2Uploader_NoPublicURL(t *testing.T) {
	u := &r2Uploader{client: &fakeObjectAPI{}, bucketName: "b"}
	assert.Equal(t, "", u.GetPublicURL("k"))
}

func TestNewR2Uploader_RequiresConfig(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Options{AccountID: "acc"})
	assert.Error(t, err)
}
