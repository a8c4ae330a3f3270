package ingest

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/d60-Lab/tayar/pkg/htmltext"
)

const (
	untitled       = "Untitled"
	descriptionLen = 200
)

// Entry 从 feed item 中抽取出的文章字段
type Entry struct {
	Title       string
	Description string
	Content     string
	ImageURL    string
	URL         string
	PublishedAt time.Time
	ReadTime    int
}

// Extract 抽取文章字段；没有可用链接时返回 false
func Extract(item *gofeed.Item, placeholderImage string, now time.Time) (Entry, bool) {
	link := itemLink(item)
	if link == "" {
		return Entry{}, false
	}

	body := itemBody(item)
	e := Entry{
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		Content:     body,
		URL:         link,
		PublishedAt: itemPublished(item, now),
		ReadTime:    htmltext.EstimateReadTime(body),
	}
	if e.Title == "" {
		e.Title = untitled
	}
	if e.Description == "" {
		e.Description = htmltext.Truncate(htmltext.PlainText(body), descriptionLen)
	}
	e.ImageURL = itemImage(item, body)
	if e.ImageURL == "" {
		e.ImageURL = placeholderImage
	}
	return e, true
}

func itemLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	guid := strings.TrimSpace(item.GUID)
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return guid
	}
	return ""
}

// content:encoded > summary > itunes summary
func itemBody(item *gofeed.Item) string {
	switch {
	case strings.TrimSpace(item.Content) != "":
		return item.Content
	case strings.TrimSpace(item.Description) != "":
		return item.Description
	case item.ITunesExt != nil && strings.TrimSpace(item.ITunesExt.Summary) != "":
		return item.ITunesExt.Summary
	}
	return ""
}

func itemImage(item *gofeed.Item, body string) string {
	if u := mediaURL(item, "content"); u != "" {
		return u
	}
	if u := mediaURL(item, "thumbnail"); u != "" {
		return u
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	if src, ok := htmltext.FirstImageSrc(body); ok {
		return src
	}
	return ""
}

func mediaURL(item *gofeed.Item, name string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[name] {
		if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
			return u
		}
	}
	// media:group 下嵌套的 content
	for _, group := range media["group"] {
		for _, ext := range group.Children[name] {
			if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
				return u
			}
		}
	}
	return ""
}

func itemPublished(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if s := strings.TrimSpace(item.Published); s != "" {
		if t, err := dateparse.ParseAny(s); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}
