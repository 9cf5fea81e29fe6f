package linkedin

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadhunter/internal/domain"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/signal"
)

// Post is one LinkedIn post recovered from a notification mail.
type Post struct {
	activityID string
	author     string
	url        string
	text       string
	received   time.Time
}

func (p Post) Source() domain.Source { return domain.SourceLinkedIn }
func (p Post) SourceName() string    { return "LinkedIn" }
func (p Post) NativeID() string      { return p.activityID }
func (p Post) Title() string         { return "" } // derived from the card text
func (p Post) Body() string          { return p.text }
func (p Post) Author() string        { return p.author }
func (p Post) Permalink() string     { return p.url }
func (p Post) CreatedAt() time.Time  { return p.received }

func fromLinkedIn(from string) bool {
	return strings.Contains(strings.ToLower(from), "linkedin.com")
}

// Post permalinks embed the activity id both as urn:li:activity:<id> and
// as an -activity-<id> slug suffix.
var reActivity = regexp.MustCompile(`activity[:-](\d+)`)

func postsFromMessage(m message) []Post {
	htmlBody := htmlFromRFC822(m.Raw)
	if htmlBody == "" {
		return nil
	}
	return parsePosts(htmlBody, m.Date)
}

// parsePosts walks every anchor in the notification HTML, keeps the ones
// pointing at a LinkedIn post and collects the surrounding card text as
// the closest thing to the post body. Multiple anchors per post (image,
// snippet, CTA button) collapse onto one entry keyed by activity id.
func parsePosts(htmlBody string, received time.Time) []Post {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	byID := map[string]*Post{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := unwrapTracking(strings.TrimSpace(a.AttrOr("href", "")))
		if !looksLikePostURL(href) {
			return
		}
		id := activityID(href)
		if id == "" {
			return
		}

		p, ok := byID[id]
		if !ok {
			p = &Post{
				activityID: id,
				author:     authorSlug(href),
				url:        cleanPostURL(href),
				received:   received,
			}
			byID[id] = p
			order = append(order, id)
		}

		// notification templates nest each post in its own table row
		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}
		if txt := util.CleanText(card.Text()); len(txt) > len(p.text) {
			p.text = txt
		}
	})

	var out []Post
	for _, id := range order {
		p := byID[id]
		// digests mix lead posts with profile views and connection spam
		if !signal.Topical(p.text) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func looksLikePostURL(href string) bool {
	h := strings.ToLower(href)
	return strings.Contains(h, "linkedin.com") &&
		(strings.Contains(h, "/feed/update/") || strings.Contains(h, "/posts/"))
}

func activityID(href string) string {
	if m := reActivity.FindStringSubmatch(href); len(m) == 2 {
		return m[1]
	}
	return ""
}

// authorSlug digs the author handle out of /posts/<slug>_<post-slug> URLs.
// Feed-update URLs carry no author; the builder tolerates an empty one.
func authorSlug(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	const marker = "/posts/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return ""
	}
	rest := u.Path[i+len(marker):]
	if j := strings.Index(rest, "_"); j > 0 {
		return rest[:j]
	}
	return ""
}

// unwrapTracking unpacks redirector links that wrap the destination in a
// url query parameter.
func unwrapTracking(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	return href
}

// cleanPostURL drops the tracking query so the same post always dedupes
// to the same url.
func cleanPostURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// htmlFromRFC822 digs the HTML part out of a raw mail. Notification mail
// is always multipart/alternative with an HTML side; anything else yields
// an empty string and the mail is skipped.
func htmlFromRFC822(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(msg.Body, 4<<20))
	if err != nil {
		return ""
	}
	_, htmlPart := textParts(msg.Header, body)
	return htmlPart
}

// textParts splits a MIME body into its plain and HTML sides, recursing
// through nested multiparts and keeping the largest candidate of each.
func textParts(h mail.Header, body []byte) (plain, htmlPart string) {
	ct := h.Get("Content-Type")
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return string(decodeTransfer(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransfer(body, cte)), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			partCTE := strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")))
			partMedia, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
			partMedia = strings.ToLower(partMedia)

			b, _ := io.ReadAll(io.LimitReader(part, 4<<20))
			b = decodeTransfer(b, partCTE)

			switch {
			case strings.HasPrefix(partMedia, "multipart/"):
				pl, ht := textParts(mail.Header(part.Header), b)
				if len(pl) > len(plain) {
					plain = pl
				}
				if len(ht) > len(htmlPart) {
					htmlPart = ht
				}
			case strings.HasPrefix(partMedia, "text/plain"):
				if len(b) > len(plain) {
					plain = string(b)
				}
			case strings.HasPrefix(partMedia, "text/html"):
				if len(b) > len(htmlPart) {
					htmlPart = string(b)
				}
			}
		}
		return plain, htmlPart
	}

	decoded := decodeTransfer(body, cte)
	if strings.HasPrefix(mediaType, "text/html") {
		return "", string(decoded)
	}
	return string(decoded), ""
}

func decodeTransfer(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 4<<20))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 4<<20))
		return out
	default:
		return b
	}
}
