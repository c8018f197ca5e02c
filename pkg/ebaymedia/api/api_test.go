package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/storage/memory"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/urlstrategy"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Backend, ebaymedia.Service) {
	t.Helper()

	store := memory.New()
	svc, err := ebaymedia.New(
		ebaymedia.WithStore(store),
		ebaymedia.WithURLStrategy(urlstrategy.NewLocal("http://example.com")),
	)
	require.NoError(t, err)

	gallery := NewGalleryHandler(svc)
	media := NewMediaHandler(svc)

	r := chi.NewRouter()
	r.Mount("/wp-json/chatbay/v1", gallery.Routes())
	r.Mount("/api/v1/gallery", gallery.Routes())
	r.Mount("/api/v1/media", media.Routes())
	r.Mount("/api/v1/admin", media.AdminRoutes())
	r.Mount("/ebay-media", media.ServeRoutes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store, svc
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func seedImage(t *testing.T, svc ebaymedia.Service, name string) {
	t.Helper()
	_, err := svc.UploadImage(context.Background(), ebaymedia.UploadImageRequest{
		FileName: name,
		Data:     bytes.NewReader(testJPEG(t)),
	})
	require.NoError(t, err)
}

func TestGalleryEndpoint(t *testing.T) {
	srv, _, svc := newTestServer(t)

	for _, name := range []string{"img10.jpg", "img2.jpg", "img1.jpg", "img3.jpg", "img4.jpg"} {
		seedImage(t, svc, name)
	}

	resp, err := http.Get(srv.URL + "/wp-json/chatbay/v1/gallery")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var gallery ebaymedia.GalleryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gallery))

	assert.Equal(t, 5, gallery.TotalImages)
	assert.Equal(t, 2, gallery.TotalGroups)
	require.Len(t, gallery.Groups, 2)
	assert.Equal(t,
		"http://example.com/ebay-media/img1.jpg,http://example.com/ebay-media/img2.jpg,http://example.com/ebay-media/img3.jpg,http://example.com/ebay-media/img4.jpg",
		gallery.Groups[0].PhotoURLs)
	assert.Equal(t, "http://example.com/ebay-media/img10.jpg", gallery.Groups[1].PhotoURLs)
}

func TestGalleryEndpointMissingDirectory(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.SetMissing(true)

	resp, err := http.Get(srv.URL + "/wp-json/chatbay/v1/gallery")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var gallery ebaymedia.GalleryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gallery))

	assert.Equal(t, 0, gallery.TotalImages)
	assert.Equal(t, 0, gallery.TotalGroups)
	assert.NotEmpty(t, gallery.Error)
	assert.NotNil(t, gallery.Groups)
}

func TestGalleryCompatAndAPIRoutesMatch(t *testing.T) {
	srv, _, svc := newTestServer(t)
	seedImage(t, svc, "a.jpg")

	for _, path := range []string{"/wp-json/chatbay/v1/gallery", "/api/v1/gallery"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		var gallery ebaymedia.GalleryResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&gallery))
		resp.Body.Close()
		assert.Equal(t, 1, gallery.TotalImages, path)
	}
}

func TestGalleryPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/wp-json/chatbay/v1/gallery", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, HEAD, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestUploadAndServe(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "photo1.jpg")
	require.NoError(t, err)
	_, err = part.Write(testJPEG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/media/", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.Equal(t, "photo1.jpg", uploaded.Name)
	assert.Equal(t, "image/jpeg", uploaded.ContentType)
	assert.Greater(t, uploaded.Size, int64(0))

	serveResp, err := http.Get(srv.URL + "/ebay-media/photo1.jpg")
	require.NoError(t, err)
	defer serveResp.Body.Close()

	assert.Equal(t, http.StatusOK, serveResp.StatusCode)
	assert.Equal(t, "image/jpeg", serveResp.Header.Get("Content-Type"))
	assert.Equal(t, "*", serveResp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "public, max-age=31536000, immutable", serveResp.Header.Get("Cache-Control"))
}

func TestUploadRejectsNonImage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/media/", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ebay-media/missing.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteImage(t *testing.T) {
	srv, _, svc := newTestServer(t)
	seedImage(t, svc, "gone.jpg")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/media/gone.jpg", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	serveResp, err := http.Get(srv.URL + "/ebay-media/gone.jpg")
	require.NoError(t, err)
	serveResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, serveResp.StatusCode)
}

func TestRepairEndpoint(t *testing.T) {
	srv, _, svc := newTestServer(t)
	seedImage(t, svc, "a.jpg")

	resp, err := http.Post(srv.URL+"/api/v1/admin/repair", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report ebaymedia.RepairReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Zero(t, report.Failures)
}

func TestThumbnailEndpoint(t *testing.T) {
	srv, _, svc := newTestServer(t)
	seedImage(t, svc, "thumb.jpg")

	resp, err := http.Get(srv.URL + "/api/v1/media/thumb.jpg/thumbnail?max_dim=4")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	cfg, format, err := image.DecodeConfig(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 4)
	assert.LessOrEqual(t, cfg.Height, 4)
}
