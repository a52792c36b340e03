// internal/apiclient/photos.go
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"mycars-storefront/internal/models"
)

// PhotoUpload là một file ảnh đã đọc vào bộ nhớ, chờ upload.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodePhotoForm(photo PhotoUpload, isMain bool) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(photo.Filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("isMain", strconv.FormatBool(isMain)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// UploadPhoto gửi một ảnh của xe dưới dạng multipart {file, isMain}.
func (c *Client) UploadPhoto(ctx context.Context, carID int64, photo PhotoUpload, isMain bool) (models.CarPhoto, error) {
	body, contentType, err := encodePhotoForm(photo, isMain)
	if err != nil {
		return models.CarPhoto{}, fmt.Errorf("encode photo %q: %w", photo.Filename, err)
	}

	var uploaded models.CarPhoto
	err = c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    c.photoPrefix + "/cars/{id}/photos",
		path:        fmt.Sprintf("%s/cars/%d/photos", c.photoPrefix, carID),
		body:        body,
		contentType: contentType,
	}, &uploaded)
	if err != nil {
		return models.CarPhoto{}, err
	}
	return uploaded, nil
}

func (c *Client) DeletePhoto(ctx context.Context, photoID int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: c.photoPrefix + "/cars/photos/{photoId}",
		path:     fmt.Sprintf("%s/cars/photos/%d", c.photoPrefix, photoID),
	}, nil)
}
