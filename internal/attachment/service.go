package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/observability/metrics"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type UploadRequest struct {
	Supplier    string
	Number      string
	DueDate     string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Store   Store
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	store    Store
	maxBytes int64
	metrics  *metrics.Metrics
}

func NewService(p Params) *Service {
	return &Service{
		log:      p.Log.Named("attachment.service"),
		store:    p.Store,
		maxBytes: p.Config.MaxUploadBytes,
		metrics:  p.Metrics,
	}
}

// Upload stores the file under its sanitized key and returns the public URL.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if req.Body == nil || strings.TrimSpace(req.Filename) == "" {
		s.metrics.RecordUpload(ctx, "invalid")
		return UploadResult{}, fmt.Errorf("%w: file is required", ErrInvalidFile)
	}
	if s.maxBytes > 0 && req.Size > s.maxBytes {
		s.metrics.RecordUpload(ctx, "too_large")
		return UploadResult{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, req.Size, s.maxBytes)
	}

	body := req.Body
	if s.maxBytes > 0 {
		body = &limitedReader{r: req.Body, remaining: s.maxBytes}
	}

	key := ObjectKey(req.Supplier, req.Number, req.DueDate, req.Filename)
	url, err := s.store.Put(ctx, key, body, req.ContentType)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			s.metrics.RecordUpload(ctx, "too_large")
			return UploadResult{}, err
		}
		s.metrics.RecordUpload(ctx, "failed")
		return UploadResult{}, db.Upstream("attachment.put", err)
	}

	s.metrics.RecordUpload(ctx, "stored")
	s.log.Info("attachment stored", zap.String("path", key))
	return UploadResult{Path: key, URL: url}, nil
}

// limitedReader fails once more than remaining bytes are read, so a body
// that lies about its size is not stored.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

// Root returns the local directory backing the store, or "" when objects are
// not kept on this host.
func (s *Service) Root() string {
	if local, ok := s.store.(interface{ Root() string }); ok {
		return local.Root()
	}
	return ""
}
