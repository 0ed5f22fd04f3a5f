package dto

// ResourceAddDTO adds a text, markdown or link resource
type ResourceAddDTO struct {
	Name    string `form:"name" validate:"required,min=1,utf16max=100"`
	Type    string `form:"type" validate:"required,oneof=text/plain text/markdown text/x-uri"`
	Content string `form:"content" validate:"utf16max=10000"`
}

func (ResourceAddDTO) Messages() map[string]string {
	return map[string]string{
		"name.required":    "Resource name is required",
		"name.min":         "Resource name is required",
		"content.utf16max": "Please add your remaining content after creating the resource.",
	}
}

// ResourceRemoveDTO removes a resource
type ResourceRemoveDTO struct {
	ID string `form:"id" validate:"required,uuid"`
}

// ResourceUpdatePlainTextDTO replaces the text of a resource
type ResourceUpdatePlainTextDTO struct {
	ID      string `form:"id" validate:"required,uuid"`
	Content string `form:"content" validate:"utf16max=10000"`
}

func (ResourceUpdatePlainTextDTO) Messages() map[string]string {
	return map[string]string{
		"content.utf16max": "Content must be less than 100k characters (why are you trying to write so much?!)",
	}
}

// UploadFileField is the multipart part carrying an uploaded resource
const UploadFileField = "file"
