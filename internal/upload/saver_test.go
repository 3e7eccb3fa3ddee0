package upload

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newTestSaver(t *testing.T, maxSizeMB int) *Saver {
	t.Helper()

	cfg := &config.Config{
		Upload: config.UploadConfig{Dir: t.TempDir(), MaxSizeMB: maxSizeMB},
	}
	saver, err := NewSaver(cfg, testLogger())
	if err != nil {
		t.Fatalf("new saver failed: %v", err)
	}
	return saver
}

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart failed: %v", err)
	}
	headers := req.MultipartForm.File["image"]
	if len(headers) == 0 {
		t.Fatalf("expected file header")
	}
	return headers[0]
}

func TestSaverSaveAndPath(t *testing.T) {
	saver := newTestSaver(t, 16)

	content := []byte("fake image bytes")
	name, err := saver.Save(multipartFileHeader(t, "photo.jpg", content))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected stored name: %q", name)
	}
	if name == "photo.jpg" {
		t.Fatalf("expected randomized name, got original")
	}

	saved, err := os.ReadFile(saver.Path(name))
	if err != nil {
		t.Fatalf("read saved file failed: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Fatalf("saved content mismatch")
	}
}

func TestSaverLowercasesExtension(t *testing.T) {
	saver := newTestSaver(t, 16)

	name, err := saver.Save(multipartFileHeader(t, "PHOTO.PNG", []byte("png bytes")))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected lowercase extension: %q", name)
	}
}

func TestSaverRejectsUnsupportedType(t *testing.T) {
	saver := newTestSaver(t, 16)

	if _, err := saver.Save(multipartFileHeader(t, "script.exe", []byte("nope"))); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if _, err := saver.Save(multipartFileHeader(t, "noextension", []byte("nope"))); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type for missing extension, got %v", err)
	}
}

func TestSaverRejectsOversized(t *testing.T) {
	saver := newTestSaver(t, 1)

	oversized := bytes.Repeat([]byte("a"), (1<<20)+1)
	if _, err := saver.Save(multipartFileHeader(t, "big.jpg", oversized)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
}

func TestSaverRejectsMissingFile(t *testing.T) {
	saver := newTestSaver(t, 16)

	if _, err := saver.Save(nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected no image, got %v", err)
	}
	if _, err := saver.Save(&multipart.FileHeader{Filename: ""}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected no image for empty filename, got %v", err)
	}
}
