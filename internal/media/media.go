// Package media models the metadata the extraction engine returns for a URL.
package media

import (
	"encoding/json"
)

// Info types reported by the engine in the "_type" field.
const (
	TypeVideo          = "video"
	TypePlaylist       = "playlist"
	TypeMultiVideo     = "multi_video"
	TypeURL            = "url"
	TypeURLTransparent = "url_transparent"
)

// Info is one node of the metadata tree. Collections carry their children in
// Entries; a flat extraction leaves children as url references.
type Info struct {
	Type       string  `json:"_type,omitempty"`
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title,omitempty"`
	URL        string  `json:"url,omitempty"`
	WebpageURL string  `json:"webpage_url,omitempty"`
	Extractor  string  `json:"extractor,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Entries    []*Info `json:"entries,omitempty"`

	// Raw is the document this node was decoded from.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the raw document so the
// node can be handed back to the engine untouched.
func (i *Info) UnmarshalJSON(data []byte) error {
	type alias Info
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = Info(a)
	i.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// IsCollection reports whether the node groups other entries.
func (i *Info) IsCollection() bool {
	if i == nil {
		return false
	}
	return i.Entries != nil || i.Type == TypePlaylist || i.Type == TypeMultiVideo
}

// IsReference reports whether the node only points at another URL.
func (i *Info) IsReference() bool {
	return i != nil && (i.Type == TypeURL || i.Type == TypeURLTransparent)
}

// Loadable reports whether the node is a fully extracted single video whose
// raw document can be fed back to the engine.
func (i *Info) Loadable() bool {
	return i != nil && !i.IsReference() && !i.IsCollection() && len(i.Raw) > 0
}

// Link returns the best URL to re-extract this node from.
func (i *Info) Link() string {
	if i == nil {
		return ""
	}
	if i.WebpageURL != "" {
		return i.WebpageURL
	}
	return i.URL
}

// Source identifies what to download for a queue item: the submitted URL and
// the metadata node resolved for it.
type Source struct {
	URL  string `json:"url"`
	Info *Info  `json:"-"`
}

// Target returns the URL the engine should fetch when Info cannot be loaded.
func (s Source) Target() string {
	if link := s.Info.Link(); link != "" {
		return link
	}
	return s.URL
}
