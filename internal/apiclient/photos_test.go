package apiclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadPhoto(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cars/12/photos", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "true", r.FormValue("isMain"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "front.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		assert.Equal(t, []byte("jpeg-bytes"), data)

		_, _ = io.WriteString(w, `{"id":31,"url":"/uploads/cars/front.jpg","isMain":true}`)
	}, WithPhotoPrefix("/api/"))

	photo, err := client.UploadPhoto(context.Background(), 12, PhotoUpload{
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
	}, true)

	require.NoError(t, err)
	assert.Equal(t, int64(31), photo.ID)
	assert.True(t, photo.IsMain)
}

func TestClient_UploadPhotoWithoutPrefix(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cars/3/photos", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "false", r.FormValue("isMain"))
		_, _ = io.WriteString(w, `{"id":1,"url":"x","isMain":false}`)
	})

	_, err := client.UploadPhoto(context.Background(), 3, PhotoUpload{Filename: "side.png", Data: []byte("\x89PNG\r\n\x1a\n")}, false)
	require.NoError(t, err)
}

func TestClient_DeletePhoto(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cars/photos/31", r.URL.Path)
	}, WithPhotoPrefix("/api"))

	require.NoError(t, client.DeletePhoto(context.Background(), 31))
}
