package imageclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(uploadURL string) *Client {
	c := NewClient("testcloud", "test_preset")
	c.uploadURL = uploadURL
	return c
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "test_preset", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "proof.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/testcloud/proof.png"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	url, err := client.Upload(context.Background(), "proof.png", strings.NewReader("fake image bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/testcloud/proof.png", url)
}

func TestUpload_HostRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Upload(context.Background(), "proof.png", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestUpload_EmptyURLInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Upload(context.Background(), "proof.png", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no url")
}
