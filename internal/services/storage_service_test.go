package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxe-clothing/storefront/internal/config"
)

var (
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, bytes.Repeat([]byte{0}, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 32)...)
	gifBytes  = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
	webpBytes = append([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0}, 32)...)
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func localStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	svc, err := NewStorageService(&config.Config{
		Upload: config.UploadConfig{
			Dir:         dir,
			BaseURL:     "http://localhost:5000/uploads/",
			MaxFileSize: 1024,
		},
	})
	require.NoError(t, err)
	return svc, dir
}

func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		ok      bool
	}{
		{"png", pngBytes, "image/png", true},
		{"jpeg", jpegBytes, "image/jpeg", true},
		{"gif", gifBytes, "image/gif", true},
		{"webp", webpBytes, "image/webp", true},
		{"text", []byte("hello, world"), "", false},
		{"empty", nil, "", false},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectImageType(tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUploadImageLocal(t *testing.T) {
	svc, dir := localStorage(t)

	result, err := svc.UploadImage(uploadHeader(t, "Dress.PNG", pngBytes), svc.ProductImageOptions())

	require.NoError(t, err)
	assert.Regexp(t, `^image-\d+-[a-z0-9]{10}\.png$`, result.Filename)
	assert.Equal(t, "http://localhost:5000/uploads/"+result.Filename, result.URL)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, "Dress.PNG", result.OriginalName)
	assert.EqualValues(t, len(pngBytes), result.Size)

	stored, err := os.ReadFile(filepath.Join(dir, result.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	require.NoError(t, svc.DeleteImage(result.Filename))
	assert.ErrorIs(t, svc.DeleteImage(result.Filename), ErrNotFound)
}

func TestUploadImageRejections(t *testing.T) {
	svc, dir := localStorage(t)

	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"wrong extension", "notes.txt", pngBytes},
		{"spoofed content", "photo.jpg", []byte("definitely not a jpeg")},
		{"too large", "big.png", append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 2048)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(uploadHeader(t, tt.filename, tt.content), svc.ProductImageOptions())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteImageRejectsTraversal(t *testing.T) {
	svc, _ := localStorage(t)

	for _, name := range []string{"", "../secret.png", ".env", "a/b.png"} {
		assert.ErrorIs(t, svc.DeleteImage(name), ErrValidation, name)
	}
}

type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	deletes []string
	missing bool
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	if f.missing {
		return nil, awserr.NewRequestFailure(awserr.New("NotFound", "Not Found", nil), http.StatusNotFound, "req-1")
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadImageS3(t *testing.T) {
	client := &fakeS3{}
	svc := NewStorageServiceWithS3(&config.Config{
		AWS:    config.AWSConfig{Region: "eu-west-3", S3Bucket: "luxe-media"},
		Upload: config.UploadConfig{MaxFileSize: 1024},
	}, client)

	result, err := svc.UploadImage(uploadHeader(t, "watch.webp", webpBytes), svc.ProductImageOptions())

	require.NoError(t, err)
	require.Len(t, client.puts, 1)
	key := aws.StringValue(client.puts[0].Key)
	assert.Equal(t, "products/"+result.Filename, key)
	assert.Equal(t, "image/webp", aws.StringValue(client.puts[0].ContentType))
	assert.Equal(t, "https://luxe-media.s3.eu-west-3.amazonaws.com/"+key, result.URL)

	require.NoError(t, svc.DeleteImage(result.Filename))
	assert.Equal(t, []string{key}, client.deletes)

	client.missing = true
	assert.ErrorIs(t, svc.DeleteImage(result.Filename), ErrNotFound)
}
