package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local disk upload store. Listing images and videos land under UPLOAD_DIR
// and are served by the app at /uploads; the stored URLs end up inside the
// PG records.

var uploadDir = "uploads"

func InitializeUploads() {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		uploadDir = dir
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		fmt.Printf("ERROR: could not create upload dir %s: %v\n", uploadDir, err)
	}
}

func UploadDir() string {
	return uploadDir
}

// SaveUpload writes the multipart file under a fresh random name and returns
// the stored file name. The original name contributes only its extension, so
// traversal attempts in client file names cannot escape the upload dir.
func SaveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	if strings.ContainsAny(ext, "/\\") || len(ext) > 10 {
		ext = ""
	}
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// UploadURL returns the public URL for a stored file name.
func UploadURL(name string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		base = "http://localhost:" + port
	}
	return strings.TrimRight(base, "/") + "/uploads/" + name
}
