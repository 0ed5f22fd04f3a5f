package form

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	ID   string  `form:"id" validate:"required,uuid"`
	Name string  `form:"name" validate:"required,max=5"`
	Note *string `form:"note" validate:"omitempty,max=3"`
}

type titleForm struct {
	Title *string `form:"title" validate:"omitempty,utf16max=4"`
}

func (sampleForm) Messages() map[string]string {
	return map[string]string{"name.required": "Name please"}
}

func newParser() *Parser {
	return NewParser(NewValidator())
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseValid(t *testing.T) {
	r := postForm(url.Values{
		"id":   {"1c2d3e4f-0000-4000-8000-000000000001"},
		"name": {"Alg"},
	})

	got, fail := Parse[sampleForm](newParser(), httptest.NewRecorder(), r)
	require.Nil(t, fail)
	assert.Equal(t, "Alg", got.Name)
	assert.Nil(t, got.Note)
}

func TestParseUsesOverrideMessage(t *testing.T) {
	r := postForm(url.Values{"id": {"1c2d3e4f-0000-4000-8000-000000000001"}})

	_, fail := Parse[sampleForm](newParser(), httptest.NewRecorder(), r)
	require.NotNil(t, fail)
	assert.Equal(t, http.StatusBadRequest, fail.Status)
	assert.Equal(t, "Name please", fail.Error)
	assert.Equal(t, map[string]string{"name": "Name please"}, fail.Fields)
}

func TestParseTranslatesDefaults(t *testing.T) {
	r := postForm(url.Values{
		"id":   {"nope"},
		"name": {"much too long"},
		"note": {"long"},
	})

	_, fail := Parse[sampleForm](newParser(), httptest.NewRecorder(), r)
	require.NotNil(t, fail)
	assert.Equal(t, "id must be a valid id", fail.Error)
	assert.Len(t, fail.Fields, 3)
	assert.Contains(t, fail.Fields["name"], "name must be a maximum of 5 characters")
}

func TestParseMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("id", "1c2d3e4f-0000-4000-8000-000000000001"))
	require.NoError(t, mw.WriteField("name", "Bio"))
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	p := newParser()
	got, fail := Parse[sampleForm](p, httptest.NewRecorder(), r)
	require.Nil(t, fail)
	assert.Equal(t, "Bio", got.Name)

	file, header, fail := p.File(httptest.NewRecorder(), r, "file")
	require.Nil(t, fail)
	defer file.Close()
	assert.Equal(t, "notes.txt", header.Filename)
}

func TestFileMissing(t *testing.T) {
	r := postForm(url.Values{})

	_, _, fail := newParser().File(httptest.NewRecorder(), r, "file")
	require.NotNil(t, fail)
	assert.Equal(t, "A file is required", fail.Fields["file"])
}

func TestParseRejectsOversizedBody(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "big.bin")
	require.NoError(t, err)
	_, _ = fw.Write(bytes.Repeat([]byte{0x01}, 4096))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	p := newParser()
	p.maxBody = 1024
	_, _, fail := p.File(httptest.NewRecorder(), r, "file")
	require.NotNil(t, fail)
	assert.Equal(t, http.StatusRequestEntityTooLarge, fail.Status)
	assert.Equal(t, "File is too large", fail.Error)
}

func TestUTF16Max(t *testing.T) {
	p := newParser()

	got, fail := Parse[titleForm](p, httptest.NewRecorder(), postForm(url.Values{"title": {"café"}}))
	require.Nil(t, fail)
	assert.Equal(t, "café", *got.Title)

	// Two emoji are four UTF-16 code units but only two runes.
	_, fail = Parse[titleForm](p, httptest.NewRecorder(), postForm(url.Values{"title": {"🎓🎓"}}))
	assert.Nil(t, fail)

	_, fail = Parse[titleForm](p, httptest.NewRecorder(), postForm(url.Values{"title": {"🎓🎓🎓"}}))
	require.NotNil(t, fail)
	assert.Equal(t, "title must be a maximum of 4 characters in length", fail.Error)
}
