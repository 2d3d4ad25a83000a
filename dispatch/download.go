package dispatch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Download performs req and saves the response body into dir. It returns the
// saved file name, resolved from the content-disposition header, then
// req.Filename, then a timestamp plus an extension derived from the content
// type.
func Download(ctx context.Context, d *Dispatcher, req Request, dir string) (string, error) {
	var saved string
	err := d.roundTrip(ctx, req, true, func(resp *http.Response) error {
		name := ResolveFilename(resp.Header, req.Filename, time.Now())
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrRequestFailed, name, err)
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("save %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("%w: close %s: %v", ErrRequestFailed, name, err)
		}
		saved = name
		return nil
	})
	if err != nil {
		return "", err
	}
	return saved, nil
}

// ResolveFilename picks the download name for a response. The result is
// always a bare file name with no directory component.
func ResolveFilename(header http.Header, fallback string, now time.Time) string {
	if name := filenameFromDisposition(header.Get("Content-Disposition")); name != "" {
		return name
	}
	if name := sanitizeFilename(fallback); name != "" {
		return name
	}
	return fmt.Sprintf("%d%s", now.UnixMilli(), ExtensionForType(header.Get("Content-Type")))
}

func filenameFromDisposition(value string) string {
	if value == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(value); err == nil {
		if name := sanitizeFilename(params["filename"]); name != "" {
			return name
		}
	}

	_, after, ok := strings.Cut(value, "filename=")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(after, ';'); i >= 0 {
		after = after[:i]
	}
	return sanitizeFilename(strings.Trim(strings.TrimSpace(after), `"'`))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if name == "/" || name == "." || name == ".." {
		return ""
	}
	return name
}

var mimeExtensions = map[string]string{
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"text/css":        ".css",
	"text/javascript": ".js",
	"text/xml":        ".xml",
	"text/markdown":   ".md",

	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.ms-excel":                                                  ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.ms-powerpoint":                                             ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",

	"application/zip":              ".zip",
	"application/x-rar-compressed": ".rar",
	"application/x-7z-compressed":  ".7z",
	"application/gzip":             ".gz",
	"application/x-tar":            ".tar",

	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",

	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",
	"audio/mp4":  ".m4a",

	"video/mp4":       ".mp4",
	"video/avi":       ".avi",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"video/webm":      ".webm",

	"application/json": ".json",
	"application/xml":  ".xml",

	"application/octet-stream": ".bin",
	"application/x-binary":     ".bin",
}

// ExtensionForType maps a content type to a file extension. Parameters such
// as charset are ignored; unknown types map to ".bin".
func ExtensionForType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	if ext, ok := mimeExtensions[strings.ToLower(strings.TrimSpace(mediaType))]; ok {
		return ext
	}
	return ".bin"
}
