package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	key string
}

func (s *stubStorage) UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	s.key = key
	return "https://cdn.example.com/" + key, nil
}

func imageRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/uploads/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	storage := &stubStorage{}
	handler := NewMediaHandler(usecase.NewMediaUseCase(storage, logger.New()), logger.New())

	router := setupTestRouter()
	router.POST("/uploads/image", handler.UploadImage)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, imageRequest(t, "logo.PNG", "image/png", []byte("png-bytes")))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://cdn.example.com/"+storage.key, decode(t, w)["url"])
	assert.Regexp(t, `^products/[0-9a-f-]{36}\.png$`, storage.key)
}

func TestUploadImage_UnsupportedType(t *testing.T) {
	handler := NewMediaHandler(usecase.NewMediaUseCase(&stubStorage{}, logger.New()), logger.New())

	router := setupTestRouter()
	router.POST("/uploads/image", handler.UploadImage)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, imageRequest(t, "notes.txt", "text/plain", []byte("hello")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported image type", decode(t, w)["error"])
}

func TestUploadImage_StorageUnavailable(t *testing.T) {
	handler := NewMediaHandler(usecase.NewMediaUseCase(nil, logger.New()), logger.New())

	router := setupTestRouter()
	router.POST("/uploads/image", handler.UploadImage)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, imageRequest(t, "logo.png", "image/png", []byte("png-bytes")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Image storage unavailable", decode(t, w)["error"])
}

func TestUploadImage_MissingFile(t *testing.T) {
	handler := NewMediaHandler(usecase.NewMediaUseCase(&stubStorage{}, logger.New()), logger.New())

	router := setupTestRouter()
	router.POST("/uploads/image", handler.UploadImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/uploads/image", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image file is required", decode(t, w)["error"])
}
