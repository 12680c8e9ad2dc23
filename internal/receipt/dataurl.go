// Package receipt converts stored receipts between their persisted data-URL
// form and short-lived object-URL handles that can be rendered or downloaded.
package receipt

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// ErrMalformed is returned when an encoded receipt cannot be decoded
var ErrMalformed = errors.New("malformed receipt")

// Blob is a decoded receipt
type Blob struct {
	MediaType string
	Data      []byte
}

// Encode returns the data URL for data. An unparseable media type is
// recorded as application/octet-stream.
func Encode(mediaType string, data []byte) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil || strings.Count(mt, "/") != 1 {
		mt = "application/octet-stream"
	}
	return dataurl.New(data, mt).String()
}

// Decode parses an encoded receipt
func Decode(encoded string) (*Blob, error) {
	if encoded == "" {
		return nil, fmt.Errorf("empty receipt: %w", ErrMalformed)
	}
	du, err := dataurl.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &Blob{
		MediaType: du.ContentType(),
		Data:      du.Data,
	}, nil
}

// Mode is how a viewer renders a blob
type Mode string

const (
	ModePDF         Mode = "pdf"
	ModeImage       Mode = "image"
	ModeUnsupported Mode = "unsupported"
)

// ModeOf picks the display mode for a media type
func ModeOf(mediaType string) Mode {
	switch {
	case strings.Contains(mediaType, "pdf"):
		return ModePDF
	case strings.Contains(mediaType, "image"):
		return ModeImage
	default:
		return ModeUnsupported
	}
}
