package aktivnatura

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

var (
	errImageTooLarge = errors.New("image too large")
	errInvalidImage  = errors.New("invalid image")
)

// processImage decodes an image from src, shrinks it to maxWidth when wider,
// and encodes it as JPEG. It returns the metadata and the encoded bytes.
func processImage(src io.Reader, originalName string, maxWidth int, now time.Time) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("%w: %v", errInvalidImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	base := slugifyFilename(originalName)
	if base == "" {
		base = "slika"
	}
	return Image{
		Filename:     base + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   now.UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	name = filepath.Base(name)
	return Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
}

func (a *App) bucketDir(bucket string) string {
	return filepath.Join(a.staticDir, uploadsSubdir, bucket)
}

// ensureUniqueFilename appends a counter while the name is taken on disk or
// in the images table.
func (a *App) ensureUniqueFilename(ctx context.Context, img *Image) error {
	dir := a.bucketDir(img.Bucket)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken, err := a.Store.ImageExists(ctx, img.Bucket, candidate)
		if err != nil {
			return err
		}
		if statErr != nil && !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
	return nil
}

// storeUpload processes an uploaded file and saves it into bucket.
func (a *App) storeUpload(ctx context.Context, bucket, name string, size int64, src io.Reader) (Image, error) {
	if size > maxUploadSize {
		return Image{}, errImageTooLarge
	}
	img, data, err := processImage(io.LimitReader(src, maxUploadSize+1), name, a.Config.MaxImageWidth, a.now())
	if err != nil {
		return Image{}, err
	}
	img.Bucket = bucket
	if err := a.ensureUniqueFilename(ctx, &img); err != nil {
		return Image{}, err
	}

	dir := a.bucketDir(bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create uploads dir: %w", err)
	}
	path := filepath.Join(dir, img.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(ctx, img); err != nil {
		_ = os.Remove(path)
		return Image{}, err
	}
	return img, nil
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// handleImageUpload accepts a multipart "image" field into the "bucket".
// The rich text editor and the image pickers call it with fetch and get
// JSON back; the plain dashboard form gets a redirect.
func (a *App) handleImageUpload(c echo.Context) error {
	bucket := c.FormValue("bucket")
	fail := func(code int, msg string) error {
		if wantsJSON(c) {
			return c.JSON(code, map[string]string{"error": msg})
		}
		return redirectWithFlash(c, ViewImages, FlashError, msg)
	}
	if !slices.Contains(Buckets, bucket) {
		return fail(http.StatusBadRequest, "Nepoznata mapa za slike.")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return fail(http.StatusBadRequest, "Odaberite sliku.")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := a.storeUpload(c.Request().Context(), bucket, file.Filename, file.Size, src)
	switch {
	case errors.Is(err, errImageTooLarge):
		a.Metrics.Uploads.WithLabelValues(bucket, "too_large").Inc()
		return fail(http.StatusRequestEntityTooLarge, "Slika je prevelika (najviše 10 MB).")
	case errors.Is(err, errInvalidImage):
		a.Metrics.Uploads.WithLabelValues(bucket, "invalid").Inc()
		return fail(http.StatusBadRequest, "Datoteka nije ispravna slika.")
	case err != nil:
		a.Metrics.Uploads.WithLabelValues(bucket, "error").Inc()
		a.Log.WithError(err).WithField("bucket", bucket).Error("image upload")
		return fail(http.StatusInternalServerError, "Slanje slike nije uspjelo.")
	}
	a.Metrics.Uploads.WithLabelValues(bucket, "ok").Inc()

	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, map[string]any{
			"url":      img.URL(),
			"filename": img.Filename,
			"width":    img.Width,
			"height":   img.Height,
		})
	}
	addFlash(c, FlashSuccess, "Slika "+img.Filename+" je učitana.")
	return c.Redirect(http.StatusSeeOther, dashboardURL(ViewImages)+"&bucket="+bucket)
}

func (a *App) handleImageDelete(c echo.Context) error {
	bucket, filename := c.Param("bucket"), c.Param("filename")
	if !slices.Contains(Buckets, bucket) || filename == "" || filename != filepath.Base(filename) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	if err := a.Store.DeleteImage(c.Request().Context(), bucket, filename); err != nil {
		return a.failWrite(c, ViewImages, "brisanje slike", err)
	}
	// The file may already be gone; the record is what the dashboard lists.
	_ = os.Remove(filepath.Join(a.bucketDir(bucket), filename))
	a.Metrics.Mutations.WithLabelValues("image", "delete").Inc()
	return redirectWithFlash(c, ViewImages, FlashSuccess, "Slika je obrisana.")
}
