package form

import (
	"bytes"
	"image"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxAvatarSize is the largest accepted avatar, 5 MiB inclusive.
const MaxAvatarSize int64 = 5 << 20

// Avatar is a selected file. Content is the payload handed to the storage
// sink and is never serialized.
type Avatar struct {
	FileName    string `json:"fileName" yaml:"fileName"`
	Size        int64  `json:"size" yaml:"size"`
	ContentType string `json:"contentType" yaml:"contentType"`
	Width       int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int    `json:"height,omitempty" yaml:"height,omitempty"`
	Content     []byte `json:"-" yaml:"-"`
}

// NewAvatar builds an Avatar from an uploaded file. size is the size the
// client declared, which may exceed len(content) when the reader was capped.
// An empty fileName means no file was selected and yields nil.
func NewAvatar(fileName string, size int64, content []byte) *Avatar {
	if fileName == "" {
		return nil
	}
	a := &Avatar{
		FileName:    fileName,
		Size:        size,
		ContentType: http.DetectContentType(content),
		Content:     content,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		a.Width = cfg.Width
		a.Height = cfg.Height
	}
	return a
}
