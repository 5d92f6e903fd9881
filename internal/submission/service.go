package submission

import (
	"context"
	"fmt"
	"path"

	"agentzone/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var imageExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

type Service struct {
	uploader Uploader
	creator  Creator
	metrics  telemetry.Metrics
	logger   *zap.Logger
	newID    func() string
}

func NewService(uploader Uploader, creator Creator, metrics telemetry.Metrics, logger *zap.Logger) *Service {
	return &Service{
		uploader: uploader,
		creator:  creator,
		metrics:  metrics,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Submit validates in, uploads its image and only then writes the tool row.
// A failed upload leaves no row. A failed row write removes the uploaded
// object again.
func (s *Service) Submit(ctx context.Context, in Input) (Result, error) {
	in = in.normalized()
	if verrs := s.validate(in); len(verrs) > 0 {
		s.metrics.ObserveSubmission(telemetry.OutcomeInvalid)
		return Result{}, verrs
	}

	t := in.toTool()

	var objectPath string
	if in.Image != nil {
		objectPath = s.objectPath(in.Image)
		url, err := s.uploader.Upload(ctx, objectPath, in.Image.ContentType, in.Image.Data)
		if err != nil {
			s.metrics.ObserveSubmission(telemetry.OutcomeUpload)
			return Result{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		if url == "" {
			s.metrics.ObserveSubmission(telemetry.OutcomeUpload)
			s.discard(ctx, objectPath)
			return Result{}, fmt.Errorf("%w: storage returned no public url", ErrUploadFailed)
		}
		t.ImageURL = &url
	}

	id, err := s.creator.Create(ctx, &t)
	if err != nil {
		s.metrics.ObserveSubmission(telemetry.OutcomeFailure)
		if objectPath != "" {
			s.discard(ctx, objectPath)
		}
		return Result{}, fmt.Errorf("create tool: %w", err)
	}

	s.metrics.ObserveSubmission(telemetry.OutcomeSuccess)
	s.logger.Info("tool submitted",
		zap.String("tool_id", id),
		zap.String("category", string(t.Category)),
		zap.Bool("with_image", objectPath != ""),
	)
	return Result{ID: id, ImageURL: t.ImageURL}, nil
}

func (s *Service) validate(in Input) ValidationErrors {
	verrs := ValidateStruct(in)
	if in.Image != nil {
		switch {
		case len(in.Image.Data) == 0:
			verrs = append(verrs, FieldError{Field: "image", Message: "image is empty"})
		case imageExtensions[in.Image.ContentType] == "":
			verrs = append(verrs, FieldError{Field: "image", Message: "image must be PNG, JPEG, WebP, GIF or SVG"})
		}
	}
	return verrs
}

// objectPath names the object after a fresh id. The extension follows the
// content type, not the client's filename.
func (s *Service) objectPath(img *Image) string {
	return path.Join("logos", s.newID()+imageExtensions[img.ContentType])
}

// discard removes an object that no row will reference. The caller may have
// gone away, so the removal does not inherit its cancellation.
func (s *Service) discard(ctx context.Context, objectPath string) {
	if err := s.uploader.Remove(context.WithoutCancel(ctx), objectPath); err != nil {
		s.logger.Error("remove orphaned image", zap.String("path", objectPath), zap.Error(err))
	}
}
