package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		prefix, folder, name string
		want                 string
	}{
		{"tooltrack/", "Tool_Images/", "abc_photo.png", "tooltrack/Tool_Images/abc_photo.png"},
		{"tooltrack", "Tool_Images", "abc_photo.png", "tooltrack/Tool_Images/abc_photo.png"},
		{"", "QR_Images/", "qr.png", "QR_Images/qr.png"},
		{"/tooltrack/", "/ReturnedTool_Images/", "r.jpg", "tooltrack/ReturnedTool_Images/r.jpg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ObjectKey(tc.prefix, tc.folder, tc.name))
	}
}

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"photo.png":   "image/png",
		"photo.PNG":   "image/png",
		"photo.jpg":   "image/jpeg",
		"photo.jpeg":  "image/jpeg",
		"anim.gif":    "image/gif",
		"archive.zip": "application/octet-stream",
		"noext":       "application/octet-stream",
	}
	for name, want := range cases {
		assert.Equal(t, want, ContentTypeFor(name), name)
	}
}
