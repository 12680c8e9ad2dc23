package receipt

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Download is a decoded receipt ready to be saved under Filename
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewDownload decodes encoded for a save-as response. When filename is
// empty one is derived from the media type.
func NewDownload(encoded, filename string) (*Download, error) {
	blob, err := Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("downloading receipt: %w", err)
	}

	filename = strings.TrimSpace(filepath.Base(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = "receipt" + extensionFor(blob.MediaType)
	}

	return &Download{
		Filename:    filename,
		ContentType: blob.MediaType,
		Data:        blob.Data,
	}, nil
}

// ContentDisposition returns the attachment header value for d
func (d *Download) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename})
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
