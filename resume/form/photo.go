package form

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EncodeDataURI reads an image and encodes it as a base64 data URI. When
// contentType is empty it is sniffed from the content.
func EncodeDataURI(r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// SelectPhoto decodes the selected file in the background. On success the held
// photo is replaced wholesale; the returned channel yields the outcome once.
func (f *Form) SelectPhoto(r io.Reader, contentType string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		uri, err := EncodeDataURI(r, contentType)
		if err != nil {
			done <- err
			return
		}
		f.setPhoto(uri)
		done <- nil
	}()
	return done
}

// Photo returns the held image data URI.
func (f *Form) Photo() string {
	f.photoMu.Lock()
	defer f.photoMu.Unlock()
	return f.photo
}

func (f *Form) setPhoto(uri string) {
	f.photoMu.Lock()
	f.photo = uri
	f.photoMu.Unlock()
}
