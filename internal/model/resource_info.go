package model

import "regexp"

// ResourceInfo describes how a resource of some content type is presented.
type ResourceInfo struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`

	// Exactly one of Type or Pattern is set.
	Type    string         `json:"type,omitempty"`
	Pattern *regexp.Regexp `json:"-"`
}

// Matches reports whether the content type t is accepted by this entry.
func (i ResourceInfo) Matches(t string) bool {
	if i.Pattern != nil {
		return i.Pattern.MatchString(t)
	}
	return i.Type == t
}

// Order matters: entries are tried top to bottom and the last one accepts everything.
var resourceMetadata = [...]ResourceInfo{
	{ID: "audio", Pattern: regexp.MustCompile(`audio/.*`), Text: "Audio", Icon: "waveform-lines"},
	{ID: "markdown", Type: TypeMarkdown, Text: "Document", Icon: "memo-pad"},
	{ID: "file", Type: TypeOctetStream, Text: "File", Icon: "file"},
	{ID: "plain", Type: TypePlainText, Text: "Plain Text", Icon: "memo"},
	{ID: "image", Pattern: regexp.MustCompile(`image/.*`), Text: "Image", Icon: "image"},
	{ID: "video", Pattern: regexp.MustCompile(`video/.*`), Text: "Video", Icon: "clapperboard-play"},
	{ID: "link", Type: TypeLink, Text: "Link", Icon: "link-simple"},
	{ID: "unknown", Pattern: regexp.MustCompile(`.*`), Text: "Unknown", Icon: "file-circle-question"},
}

// ResourceMetadata returns the presentation table in match order.
func ResourceMetadata() []ResourceInfo {
	out := make([]ResourceInfo, len(resourceMetadata))
	copy(out, resourceMetadata[:])
	return out
}

// ResourceInfoFor returns the first entry of the table accepting contentType.
func ResourceInfoFor(contentType string) ResourceInfo {
	for _, info := range resourceMetadata {
		if info.Matches(contentType) {
			return info
		}
	}
	// The last entry matches any string.
	panic("unreachable: no resource info matched " + contentType)
}
