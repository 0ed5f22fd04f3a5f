package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"time"
	"unicode/utf8"

	"arcronym/internal/model"
	"arcronym/internal/pubsub"
	"arcronym/internal/repository"
	"arcronym/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"lukechampine.com/blake3"
)

var ErrResourceNotFound = errors.New("resource not found")

// ResourceService defines resource-related operations
type ResourceService interface {
	GetResource(ctx context.Context, resourceID string) (*model.Resource, error)
	CreateResource(ctx context.Context, res *model.Resource) error
	UpdateResource(ctx context.Context, u model.ResourceUpdate) error
	DeleteResource(ctx context.Context, resourceID string) error

	// UploadResource creates a resource from a file. Text files that fit a text resource are
	// stored as literal content; anything else goes to the blob store.
	UploadResource(ctx context.Context, in UploadInput) (*model.Resource, error)
	// ResourceURL returns where the blob named by a file resource's content can be fetched
	ResourceURL(hash string) string
}

// UploadInput is a file submitted for a course. ContentType is the type declared by the
// client and may be empty.
type UploadInput struct {
	UserID      string
	CourseID    string
	Filename    string
	ContentType string
	Body        []byte
}

// ResourceUploadedEvent is published after a file resource is created.
type ResourceUploadedEvent struct {
	Type        string `json:"type"`
	ResourceID  string `json:"resource_id"`
	CourseID    string `json:"course_id"`
	UserID      string `json:"user_id"`
	Hash        string `json:"hash"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type resourceService struct {
	repo           repository.ResourceRepository
	blobs          BlobStore
	publisher      pubsub.Publisher
	uploadTopic    string
	baseURL        string
	resourceLogger zerolog.Logger
}

func NewResourceService(
	repo repository.ResourceRepository,
	blobs BlobStore,
	publisher pubsub.Publisher,
	uploadTopic string,
	baseURL string,
	logger zerolog.Logger,
) ResourceService {
	return &resourceService{
		repo:           repo,
		blobs:          blobs,
		publisher:      publisher,
		uploadTopic:    uploadTopic,
		baseURL:        baseURL,
		resourceLogger: logger.With().Str("service", "ResourceService").Logger(),
	}
}

func (s *resourceService) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	res, err := s.repo.GetResourceByID(ctx, resourceID)
	if err != nil {
		s.resourceLogger.Error().Err(err).Str("resource_id", resourceID).Msg("Failed to get resource by ID")
		return nil, err
	}
	if res == nil {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

// CreateResource inserts res as given. UserID, CourseID, Name, Type and Content are required;
// Content may be empty text but Type may not.
func (s *resourceService) CreateResource(ctx context.Context, res *model.Resource) error {
	switch {
	case res.UserID == "":
		return fmt.Errorf("%w: userId", ErrMissingField)
	case res.CourseID == "":
		return fmt.Errorf("%w: courseId", ErrMissingField)
	case res.Name == "":
		return fmt.Errorf("%w: name", ErrMissingField)
	case res.Type == "":
		return fmt.Errorf("%w: type", ErrMissingField)
	}
	if err := s.repo.CreateResource(ctx, res); err != nil {
		s.resourceLogger.Error().Err(err).Str("course_id", res.CourseID).Msg("Failed to create resource")
		return err
	}
	return nil
}

func (s *resourceService) UpdateResource(ctx context.Context, u model.ResourceUpdate) error {
	if u.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if err := s.repo.UpdateResource(ctx, u); err != nil {
		s.resourceLogger.Error().Err(err).Str("resource_id", u.ID).Msg("Failed to update resource")
		return err
	}
	return nil
}

func (s *resourceService) DeleteResource(ctx context.Context, resourceID string) error {
	if err := s.repo.DeleteResource(ctx, resourceID); err != nil {
		s.resourceLogger.Error().Err(err).Str("resource_id", resourceID).Msg("Failed to delete resource")
		return err
	}
	return nil
}

// ContentHash returns the hex BLAKE3 digest naming body in the blob store.
func ContentHash(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// uploadContentType trusts a specific declared type and sniffs the body otherwise.
func uploadContentType(declared string, body []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != model.TypeOctetStream {
		return mt
	}
	mt, _, err := mime.ParseMediaType(mimetype.Detect(body).String())
	if err != nil {
		return model.TypeOctetStream
	}
	return mt
}

// literalText returns body as resource text when it is valid UTF-8 within MaxTextContent.
func literalText(body []byte) (string, bool) {
	if !utf8.Valid(body) {
		return "", false
	}
	text := string(body)
	if util.TextLength(text) > model.MaxTextContent {
		return "", false
	}
	return text, true
}

// A resource with a text type always holds its text, so text files that cannot be kept literally
// are stored as application/octet-stream. Identical blobs are stored once: the blob is only
// written when its hash is not yet known.
func (s *resourceService) UploadResource(ctx context.Context, in UploadInput) (*model.Resource, error) {
	contentType := uploadContentType(in.ContentType, in.Body)
	if model.IsLiteralType(contentType) {
		if text, ok := literalText(in.Body); ok {
			res := &model.Resource{
				CourseID: in.CourseID,
				UserID:   in.UserID,
				Name:     in.Filename,
				Type:     contentType,
				Content:  text,
			}
			if err := s.CreateResource(ctx, res); err != nil {
				return nil, err
			}
			return res, nil
		}
		contentType = model.TypeOctetStream
	}

	hash := ContentHash(in.Body)

	exists, err := s.blobs.Exists(ctx, hash)
	if err != nil {
		s.resourceLogger.Error().Err(err).Str("hash", hash).Msg("Failed to check blob store")
		return nil, err
	}
	if !exists {
		if err := s.blobs.Put(ctx, hash, contentType, in.Body); err != nil {
			s.resourceLogger.Error().Err(err).Str("hash", hash).Msg("Failed to store blob")
			return nil, err
		}
	}

	res := &model.Resource{
		CourseID: in.CourseID,
		UserID:   in.UserID,
		Name:     in.Filename,
		Type:     contentType,
		Content:  hash,
	}
	if err := s.CreateResource(ctx, res); err != nil {
		return nil, err
	}

	s.announceUpload(ctx, res, len(in.Body))
	return res, nil
}

// announceUpload is best effort: the resource exists whether or not the event goes out.
func (s *resourceService) announceUpload(ctx context.Context, res *model.Resource, size int) {
	if s.uploadTopic == "" {
		return
	}
	payload, err := json.Marshal(ResourceUploadedEvent{
		Type:        "resource.uploaded",
		ResourceID:  res.ID,
		CourseID:    res.CourseID,
		UserID:      res.UserID,
		Hash:        res.Content,
		ContentType: res.Type,
		Size:        size,
	})
	if err != nil {
		s.resourceLogger.Error().Err(err).Str("resource_id", res.ID).Msg("Failed to encode upload event")
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := s.publisher.Publish(pubCtx, s.uploadTopic, payload); err != nil {
		s.resourceLogger.Warn().Err(err).Str("resource_id", res.ID).Msg("Failed to publish upload event")
	}
}

func (s *resourceService) ResourceURL(hash string) string {
	return s.baseURL + hash
}
