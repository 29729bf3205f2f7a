package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Kind selects the upload sub-directory.
type Kind string

const (
	KindProduct Kind = "products"
	KindProfile Kind = "profiles"
)

var allowedExtensions = map[string]imaging.Format{
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".png":  imaging.PNG,
}

var allowedMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ImageStore persists uploaded images and returns the reference stored on the row.
// DeleteImage removes an image whose row was never written.
type ImageStore interface {
	SaveImage(ctx context.Context, kind Kind, filename string, src io.Reader) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

// Local writes images below a directory served as static content.
type Local struct {
	root      string
	urlPrefix string
	maxBytes  int64
	maxWidth  int
	maxHeight int
	quality   int
	now       func() time.Time
	logg      *logger.Logger
}

// NewLocal builds the store and makes sure the root directory exists.
func NewLocal(cfg config.UploadsConfig, logg *logger.Logger) (*Local, error) {
	root := strings.TrimSpace(cfg.Dir)
	if root == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	quality := cfg.ImageQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Local{
		root:      root,
		urlPrefix: strings.Trim(cfg.URLPrefix, "/"),
		maxBytes:  cfg.MaxUploadBytes(),
		maxWidth:  cfg.ImageMaxWidth,
		maxHeight: cfg.ImageMaxHeight,
		quality:   quality,
		now:       time.Now,
		logg:      logg,
	}, nil
}

// SaveImage validates, normalizes and stores an uploaded jpeg or png.
func (l *Local) SaveImage(ctx context.Context, kind Kind, filename string, src io.Reader) (string, error) {
	if src == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only jpg, jpeg and png images are allowed").
			WithDetails(map[string]any{"filename": filename})
	}

	data, err := l.readLimited(src)
	if err != nil {
		return "", err
	}

	detected := mimetype.Detect(data)
	if _, ok := allowedMIMEs[detected.String()]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file content is not a jpeg or png image").
			WithDetails(map[string]any{"mime": detected.String()})
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image could not be decoded")
	}
	if l.maxWidth > 0 && l.maxHeight > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > l.maxWidth || bounds.Dy() > l.maxHeight {
			img = imaging.Fit(img, l.maxWidth, l.maxHeight, imaging.Lanczos)
		}
	}

	dir := filepath.Join(l.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload directory")
	}

	name := l.fileName(kind, ext)
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	defer out.Close()

	if err := imaging.Encode(out, img, format, imaging.JPEGQuality(l.quality)); err != nil {
		_ = os.Remove(out.Name())
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upload")
	}

	ref := path.Join(l.urlPrefix, string(kind), name)
	if l.logg != nil {
		l.logg.Info(l.logg.WithFields(ctx, map[string]any{"ref": ref, "mime": detected.String()}), "upload.saved")
	}
	return ref, nil
}

// DeleteImage removes a file previously returned by SaveImage. Refs outside the upload
// directories are rejected; a file that is already gone is not an error.
func (l *Local) DeleteImage(ctx context.Context, ref string) error {
	rel, err := l.relativePath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove upload")
	}
	if l.logg != nil {
		l.logg.Info(l.logg.WithField(ctx, "ref", ref), "upload.deleted")
	}
	return nil
}

// relativePath maps a stored ref back to "<kind>/<name>" below the root.
func (l *Local) relativePath(ref string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+ref), "/")
	if l.urlPrefix != "" {
		if !strings.HasPrefix(rel, l.urlPrefix+"/") {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "not an upload reference").
				WithDetails(map[string]any{"ref": ref})
		}
		rel = strings.TrimPrefix(rel, l.urlPrefix+"/")
	}
	kind, name, ok := strings.Cut(rel, "/")
	if !ok || name == "" || strings.Contains(name, "/") || (Kind(kind) != KindProduct && Kind(kind) != KindProfile) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "not an upload reference").
			WithDetails(map[string]any{"ref": ref})
	}
	return rel, nil
}

func (l *Local) readLimited(src io.Reader) ([]byte, error) {
	reader := src
	if l.maxBytes > 0 {
		reader = io.LimitReader(src, l.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file is empty")
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file is too large").
			WithDetails(map[string]any{"max_bytes": l.maxBytes})
	}
	return data, nil
}

func (l *Local) fileName(kind Kind, ext string) string {
	stamp := l.now().UTC().Format("20060102150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s%s", strings.TrimSuffix(string(kind), "s"), stamp, suffix, ext)
}
