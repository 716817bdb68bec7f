package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/tcolgate/mp3"
)

// ErrUnsupportedMedia is returned for any extension outside {mp3, wav}.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// StoredFile describes an upload after it has been written to disk.
type StoredFile struct {
	Path     string
	Duration int // seconds
}

type UploadService interface {
	Store(file *multipart.FileHeader) (*StoredFile, error)
	Remove(path string) error
}

type uploadService struct {
	dir string
}

func NewUploadService(dir string) (UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &uploadService{dir: dir}, nil
}

// Store validates the extension, writes the file under a server-controlled
// name and probes the duration from the container metadata. The write is
// synchronous within the request.
func (s *uploadService) Store(file *multipart.FileHeader) (*StoredFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext != "mp3" && ext != "wav" {
		return nil, ErrUnsupportedMedia
	}

	name := fmt.Sprintf("%s_%s.%s", uuid.NewString(), sanitizeFilename(file.Filename), ext)
	path := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	duration, err := probeDuration(path, ext)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to read audio metadata: %w", err)
	}

	log.Printf("[Upload] Stored %s (%ds)", name, duration)

	return &StoredFile{Path: path, Duration: duration}, nil
}

func (s *uploadService) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func probeDuration(path, ext string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch ext {
	case "mp3":
		return mp3Duration(f)
	case "wav":
		return wavDuration(f)
	}
	return 0, ErrUnsupportedMedia
}

// mp3Duration walks every frame and sums the frame durations; MP3 carries no
// duration header of its own.
func mp3Duration(r io.Reader) (int, error) {
	decoder := mp3.NewDecoder(r)

	var total float64
	var frame mp3.Frame
	skipped := 0

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return int(total), nil
}

func wavDuration(f *os.File) (int, error) {
	decoder := wav.NewDecoder(f)
	duration, err := decoder.Duration()
	if err != nil {
		return 0, err
	}
	return int(duration.Seconds()), nil
}

// sanitizeFilename strips the extension and replaces anything outside
// [a-zA-Z0-9] with underscores.
func sanitizeFilename(filename string) string {
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	var result []rune
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
