package domain

import "strings"

const (
	DefaultIdentifier = "unknown"
	DefaultTitle      = "video"
)

// HeaderOverrides are the only request headers the extension may set on a fetch.
type HeaderOverrides struct {
	Referer string `json:"referer,omitempty"`
	Cookie  string `json:"cookie,omitempty"`
	UA      string `json:"ua,omitempty"`
}

// DownloadItem is one video reference submitted by the extension.
type DownloadItem struct {
	Identifier string          `json:"sku"`
	Title      string          `json:"title"`
	SourceURL  string          `json:"videoUrl"`
	Headers    HeaderOverrides `json:"headers"`
}

// SKU returns the identifier, or DefaultIdentifier when none was sent.
func (i DownloadItem) SKU() string {
	if i.Identifier == "" {
		return DefaultIdentifier
	}
	return i.Identifier
}

// DisplayTitle returns the title, or DefaultTitle when none was sent.
func (i DownloadItem) DisplayTitle() string {
	if i.Title == "" {
		return DefaultTitle
	}
	return i.Title
}

// HasURL reports whether the item can be fetched at all.
func (i DownloadItem) HasURL() bool {
	return strings.TrimSpace(i.SourceURL) != ""
}

// ItemResult is the outcome of one DownloadItem.
type ItemResult struct {
	SKU   string `json:"sku"`
	Title string `json:"title"`
	OK    bool   `json:"ok"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
	URL   string `json:"url,omitempty"`
	Bytes int64  `json:"bytes,omitempty"`
}
