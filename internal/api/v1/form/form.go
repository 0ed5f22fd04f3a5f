// Package form decodes and validates the form submissions of the actions.
package form

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	goform "github.com/go-playground/form/v4"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// MaxUploadSize bounds an uploaded file
const MaxUploadSize = 32 << 20

// maxBodySize bounds a whole submission: one file plus the multipart framing and other fields.
const maxBodySize = MaxUploadSize + 1<<20

// Messages is implemented by forms that override the default error text of a field. Keys are
// "<field>.<tag>", e.g. "name.required".
type Messages interface {
	Messages() map[string]string
}

// Failure describes why a submission was rejected. Error is the message shown to the user;
// Fields maps every invalid field to its message.
type Failure struct {
	Status int               `json:"-"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Fail builds a Failure without field details.
func Fail(status int, msg string) *Failure {
	return &Failure{Status: status, Error: msg}
}

type Parser struct {
	decoder    *goform.Decoder
	validate   *validator.Validate
	translator ut.Translator
	maxBody    int64
}

func NewParser(validate *validator.Validate, translator ut.Translator) *Parser {
	return &Parser{
		decoder:    goform.NewDecoder(),
		validate:   validate,
		translator: translator,
		maxBody:    maxBodySize,
	}
}

// Parse decodes the url-encoded or multipart body of r into a T and validates it.
func Parse[T any](p *Parser, w http.ResponseWriter, r *http.Request) (*T, *Failure) {
	if err := p.parseBody(w, r); err != nil {
		return nil, bodyFailure(err)
	}

	var dst T
	if err := p.decoder.Decode(&dst, r.PostForm); err != nil {
		return nil, Fail(http.StatusBadRequest, "Invalid form submission")
	}
	if f := p.check(&dst); f != nil {
		return nil, f
	}
	return &dst, nil
}

// File returns the multipart file submitted as field.
func (p *Parser) File(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, *Failure) {
	if err := p.parseBody(w, r); err != nil {
		return nil, nil, bodyFailure(err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, &Failure{
			Status: http.StatusBadRequest,
			Error:  "A file is required",
			Fields: map[string]string{field: "A file is required"},
		}
	}
	return file, header, nil
}

// parseBody parses the body once, reading at most p.maxBody bytes of it.
func (p *Parser) parseBody(w http.ResponseWriter, r *http.Request) error {
	if r.PostForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, p.maxBody)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(MaxUploadSize)
	}
	return r.ParseForm()
}

func bodyFailure(err error) *Failure {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Fail(http.StatusRequestEntityTooLarge, "File is too large")
	}
	return Fail(http.StatusBadRequest, "Invalid form submission")
}

func (p *Parser) check(dst any) *Failure {
	err := p.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Fail(http.StatusBadRequest, "Invalid form submission")
	}

	var overrides map[string]string
	if m, ok := dst.(Messages); ok {
		overrides = m.Messages()
	}

	f := &Failure{Status: http.StatusBadRequest, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg, ok := overrides[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Translate(p.translator)
		}
		if _, seen := f.Fields[fe.Field()]; !seen {
			f.Fields[fe.Field()] = msg
		}
		if f.Error == "" {
			f.Error = msg
		}
	}
	return f
}
