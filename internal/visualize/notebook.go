package visualize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFileType is returned by ShowInNotebook for extensions it
// cannot render.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Renderable is a displayable artifact for notebook front-ends, which pick
// a renderer from the MIME type.
type Renderable interface {
	// MIME returns the MIME type of the content.
	MIME() string
	// Bytes returns the raw content.
	Bytes() []byte
}

// HTMLDocument is a rendered HTML explainer ready for inline display.
type HTMLDocument struct {
	content []byte
}

// MIME returns "text/html".
func (d *HTMLDocument) MIME() string { return "text/html" }

// Bytes returns the document source.
func (d *HTMLDocument) Bytes() []byte { return d.content }

// ImageFile is a rendered image ready for inline display.
type ImageFile struct {
	content []byte
	mime    string
}

// MIME returns the image MIME type ("image/png" or "image/jpeg").
func (i *ImageFile) MIME() string { return i.mime }

// Bytes returns the encoded image.
func (i *ImageFile) Bytes() []byte { return i.content }

// ShowInNotebook loads a rendered artifact for notebook display, dispatching
// on the file extension: .html becomes an HTMLDocument, .png/.jpeg/.jpg an
// ImageFile. Anything else fails with ErrUnsupportedFileType.
func ShowInNotebook(path string) (Renderable, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var mime string
	switch ext {
	case "html":
		mime = "text/html"
	case "png":
		mime = "image/png"
	case "jpeg", "jpg":
		mime = "image/jpeg"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("show in notebook: %w", err)
	}

	if mime == "text/html" {
		return &HTMLDocument{content: content}, nil
	}
	return &ImageFile{content: content, mime: mime}, nil
}
