package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// ErrUnsupported is returned by Preview for media types it cannot render
var ErrUnsupported = errors.New("unsupported receipt type")

// Preview renders blob as a PNG: the first page of a PDF, or the image
// re-encoded. PNG images are returned as-is.
func Preview(blob *Blob) ([]byte, error) {
	switch ModeOf(blob.MediaType) {
	case ModePDF:
		return pdfToPNG(blob.Data)
	case ModeImage:
		if blob.MediaType == "image/png" {
			return blob.Data, nil
		}
		return imageToPNG(blob.Data, blob.MediaType)
	default:
		return nil, fmt.Errorf("previewing %s: %w", blob.MediaType, ErrUnsupported)
	}
}

// pdfToPNG renders the first page of a PDF
func pdfToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	// Receipts are single page
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	return encodePNG(img)
}

// imageToPNG converts JPEG, GIF or HEIC data to PNG. Uploads are limited to
// JPEG and PNG, but records written straight through the service may carry
// photos from a phone.
func imageToPNG(imageData []byte, mediaType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	if isHEIC(imageData, mediaType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
		return encodePNG(img)
	}

	img, _, err = image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return encodePNG(img)
}

// isHEIC checks the media type and the ftyp brand of an ISO media file
func isHEIC(data []byte, mediaType string) bool {
	if strings.Contains(mediaType, "heic") || strings.Contains(mediaType, "heif") {
		return true
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
