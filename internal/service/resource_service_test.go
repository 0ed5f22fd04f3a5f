package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"arcronym/internal/model"
	"arcronym/internal/repository/repotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resourceFixture struct {
	store     *repotest.Store
	blobs     *repotest.Blobs
	publisher *repotest.Publisher
}

func newResourceService(topic string) (ResourceService, resourceFixture) {
	fx := resourceFixture{
		store:     repotest.NewStore(),
		blobs:     repotest.NewBlobs(),
		publisher: &repotest.Publisher{},
	}
	svc := NewResourceService(fx.store, fx.blobs, fx.publisher, topic, "https://blobs.test/", zerolog.Nop())
	return svc, fx
}

func TestCreateResourceValidates(t *testing.T) {
	svc, _ := newResourceService("")
	ctx := context.Background()

	cases := []model.Resource{
		{CourseID: "c", Name: "n", Type: model.TypePlainText},
		{UserID: "u", Name: "n", Type: model.TypePlainText},
		{UserID: "u", CourseID: "c", Type: model.TypePlainText},
		{UserID: "u", CourseID: "c", Name: "n"},
	}
	for _, res := range cases {
		res := res
		assert.ErrorIs(t, svc.CreateResource(ctx, &res), ErrMissingField)
	}

	ok := model.Resource{UserID: "u", CourseID: "c", Name: "n", Type: model.TypePlainText}
	require.NoError(t, svc.CreateResource(ctx, &ok))
	assert.NotEmpty(t, ok.ID)
}

func TestGetResourceNotFound(t *testing.T) {
	svc, _ := newResourceService("")

	_, err := svc.GetResource(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUpdateResourceKeepsUnsetFields(t *testing.T) {
	svc, _ := newResourceService("")
	ctx := context.Background()
	res := model.Resource{UserID: "u", CourseID: "c", Name: "Notes", Type: model.TypePlainText, Content: "old"}
	require.NoError(t, svc.CreateResource(ctx, &res))

	modified := res.CreatedAt.Add(time.Hour)
	content := "new"
	require.NoError(t, svc.UpdateResource(ctx, model.ResourceUpdate{ID: res.ID, Content: &content, ModifiedAt: &modified}))

	got, err := svc.GetResource(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.Equal(t, "Notes", got.Name)
	assert.Equal(t, modified, got.ModifiedAt)
	assert.Equal(t, res.CreatedAt, got.CreatedAt)

	assert.ErrorIs(t, svc.UpdateResource(ctx, model.ResourceUpdate{Content: &content}), ErrMissingField)
}

func TestDeleteResource(t *testing.T) {
	svc, _ := newResourceService("")
	ctx := context.Background()
	res := model.Resource{UserID: "u", CourseID: "c", Name: "Notes", Type: model.TypePlainText}
	require.NoError(t, svc.CreateResource(ctx, &res))

	require.NoError(t, svc.DeleteResource(ctx, res.ID))
	_, err := svc.GetResource(ctx, res.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUploadResourceDeduplicatesBlobs(t *testing.T) {
	svc, fx := newResourceService("")
	ctx := context.Background()
	body := []byte("%PDF-1.4 lecture notes")
	in := UploadInput{UserID: "u", CourseID: "c", Filename: "notes.pdf", Body: body}

	first, err := svc.UploadResource(ctx, in)
	require.NoError(t, err)
	second, err := svc.UploadResource(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.blobs.Puts)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, ContentHash(body), first.Content)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, "application/pdf", first.Type)
	assert.False(t, first.HasLiteralContent())

	blob, ok := fx.blobs.Get(first.Content)
	require.True(t, ok)
	assert.Equal(t, body, blob.Body)
	assert.Equal(t, "https://blobs.test/"+first.Content, svc.ResourceURL(first.Content))
}

func TestUploadResourceContentType(t *testing.T) {
	assert.Equal(t, "image/png", uploadContentType("image/png; charset=binary", nil))
	assert.Equal(t, "text/plain", uploadContentType("", []byte("just words")))
	assert.Equal(t, "application/pdf", uploadContentType(model.TypeOctetStream, []byte("%PDF-1.7")))
	assert.Equal(t, model.TypeOctetStream, uploadContentType("", []byte{0x00, 0x01, 0x02}))
}

func TestUploadResourcePublishesEvent(t *testing.T) {
	svc, fx := newResourceService("resource-uploads")

	res, err := svc.UploadResource(context.Background(), UploadInput{
		UserID: "u", CourseID: "c", Filename: "a.pdf", ContentType: "application/pdf", Body: []byte("%PDF-"),
	})
	require.NoError(t, err)

	require.Len(t, fx.publisher.Messages, 1)
	msg := fx.publisher.Messages[0]
	assert.Equal(t, "resource-uploads", msg.Topic)
	var event ResourceUploadedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, "resource.uploaded", event.Type)
	assert.Equal(t, res.ID, event.ResourceID)
	assert.Equal(t, 5, event.Size)
}

func TestUploadResourceSurvivesPublishFailure(t *testing.T) {
	svc, fx := newResourceService("resource-uploads")
	fx.publisher.Err = errors.New("unavailable")

	_, err := svc.UploadResource(context.Background(), UploadInput{
		UserID: "u", CourseID: "c", Filename: "a.bin", Body: []byte{0x00, 0x01, 0x02},
	})
	assert.NoError(t, err)
}

func TestUploadResourceWithoutTopicPublishesNothing(t *testing.T) {
	svc, fx := newResourceService("")

	_, err := svc.UploadResource(context.Background(), UploadInput{
		UserID: "u", CourseID: "c", Filename: "a.bin", Body: []byte{0x00, 0x01, 0x02},
	})
	require.NoError(t, err)
	assert.Empty(t, fx.publisher.Messages)
}

func TestUploadResourceBlobFailure(t *testing.T) {
	svc, fx := newResourceService("")
	fx.blobs.Err = errors.New("s3 down")

	_, err := svc.UploadResource(context.Background(), UploadInput{
		UserID: "u", CourseID: "c", Filename: "a.bin", Body: []byte{0x00, 0x01, 0x02},
	})
	assert.Error(t, err)
	n, _ := fx.store.CountResources(context.Background())
	assert.Zero(t, n)
}

func TestUploadResourceKeepsTextLiteral(t *testing.T) {
	svc, fx := newResourceService("resource-uploads")
	ctx := context.Background()

	res, err := svc.UploadResource(ctx, UploadInput{
		UserID: "u", CourseID: "c", Filename: "notes.txt",
		ContentType: "text/plain; charset=utf-8", Body: []byte("hello world, plain notes"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypePlainText, res.Type)
	assert.Equal(t, "hello world, plain notes", res.Content)
	assert.True(t, res.HasLiteralContent())
	assert.Zero(t, fx.blobs.Puts)
	assert.Empty(t, fx.publisher.Messages)

	md, err := svc.UploadResource(ctx, UploadInput{
		UserID: "u", CourseID: "c", Filename: "week1.md", ContentType: "text/markdown", Body: []byte("# Week 1"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeMarkdown, md.Type)
	assert.Equal(t, "# Week 1", md.Content)

	// Sniffed text is treated the same as declared text.
	sniffed, err := svc.UploadResource(ctx, UploadInput{
		UserID: "u", CourseID: "c", Filename: "todo", Body: []byte("just words"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypePlainText, sniffed.Type)
	assert.Equal(t, "just words", sniffed.Content)
}

func TestUploadResourceStoresUnfitTextAsBlob(t *testing.T) {
	svc, fx := newResourceService("")
	ctx := context.Background()

	long := []byte(strings.Repeat("x", model.MaxTextContent+1))
	res, err := svc.UploadResource(ctx, UploadInput{
		UserID: "u", CourseID: "c", Filename: "book.txt", ContentType: "text/plain", Body: long,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeOctetStream, res.Type)
	assert.Equal(t, ContentHash(long), res.Content)
	assert.False(t, res.HasLiteralContent())
	assert.Equal(t, 1, fx.blobs.Puts)

	invalid := []byte{0xff, 0xfe, 'h', 'i'}
	res, err = svc.UploadResource(ctx, UploadInput{
		UserID: "u", CourseID: "c", Filename: "odd.txt", ContentType: "text/plain", Body: invalid,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeOctetStream, res.Type)
	assert.Equal(t, ContentHash(invalid), res.Content)
}
