// Package htmltext 从订阅源里的 HTML 片段提取纯文本、图片和阅读时长
package htmltext

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute 阅读速度
const WordsPerMinute = 200

// PlainText 去掉标签，合并空白；解析失败时原样返回
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// FirstImageSrc 返回正文里第一个带 src 的 <img>
func FirstImageSrc(fragment string) (string, bool) {
	if !strings.Contains(fragment, "<img") && !strings.Contains(fragment, "<IMG") {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", false
	}
	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("src")
		v = strings.TrimSpace(v)
		if v == "" {
			return true
		}
		src = v
		return false
	})
	return src, src != ""
}

// EstimateReadTime 词数 / 200 向上取整，最少 1 分钟
func EstimateReadTime(body string) int {
	words := len(strings.Fields(PlainText(body)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Truncate 按 rune 截断，超长时追加省略号
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
