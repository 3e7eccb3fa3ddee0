package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

var (
	// ErrNoImage: 업로드 파일이 없거나 파일명이 비어 있음
	ErrNoImage = errors.New("no image uploaded")
	// ErrTooLarge: 허용 크기를 초과한 업로드
	ErrTooLarge = errors.New("image too large")
	// ErrUnsupportedType: 허용되지 않은 확장자
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// Saver: 업로드 사진을 검증하고 디스크에 저장한다.
// 원본 파일명은 버리고 uuid 기반 이름으로 저장한다.
type Saver struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewSaver: 업로드 디렉터리를 준비하고 Saver를 생성한다.
func NewSaver(cfg *config.Config, logger *slog.Logger) (*Saver, error) {
	if cfg == nil {
		return nil, errors.New("upload config is nil")
	}
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{cfg: cfg, logger: logger}, nil
}

// Dir: 업로드 디렉터리 경로를 반환한다.
func (s *Saver) Dir() string {
	return s.cfg.Upload.Dir
}

// Path: 저장된 파일명의 전체 경로를 반환한다.
func (s *Saver) Path(name string) string {
	return filepath.Join(s.cfg.Upload.Dir, name)
}

// Save: 업로드 파일을 검증 후 저장하고 저장된 파일명을 반환한다.
func (s *Saver) Save(header *multipart.FileHeader) (string, error) {
	if header == nil || header.Filename == "" {
		return "", ErrNoImage
	}
	if header.Size > s.cfg.Upload.MaxSizeBytes() {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + "." + ext
	path := s.Path(name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// header.Size 는 신뢰하되 실제 바이트 수도 한도로 묶는다.
	written, err := io.Copy(dst, io.LimitReader(src, s.cfg.Upload.MaxSizeBytes()+1))
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.cfg.Upload.MaxSizeBytes() {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	if s.logger != nil {
		s.logger.Debug("upload_saved", "file", name, "bytes", written)
	}
	return name, nil
}
