package linkedin

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var received = time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)

const digestHTML = `<html><body>
<table><tr><td>
  <a href="https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/?trk=eml">photo</a>
  <p>Maria Santos posted: Need a website for my bakery, budget is $400. Any takers?</p>
  <a href="https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/?trk=eml-cta">View post</a>
</td></tr></table>
<table><tr><td>
  <a href="https://www.linkedin.com/posts/john-doe_hiring-activity-7999888777666555444-AbCd?utm_source=mail">John Doe is hiring a web developer for a startup, paid gig</a>
</td></tr></table>
<table><tr><td>
  <a href="https://www.linkedin.com/feed/update/urn:li:activity:7000000000000000001/">Ana viewed your profile</a>
</td></tr></table>
<a href="https://www.linkedin.com/help/unsubscribe">Unsubscribe</a>
</body></html>`

func TestParsePosts_CollapsesAnchorsPerPost(t *testing.T) {
	posts := parsePosts(digestHTML, received)
	require.Len(t, posts, 2, "profile-view card is off topic, unsubscribe is no post")

	first := posts[0]
	assert.Equal(t, "7123456789012345678", first.activityID)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/", first.url)
	assert.Empty(t, first.author, "feed-update links carry no author slug")
	assert.Contains(t, first.text, "Need a website for my bakery, budget is $400")
	assert.Equal(t, received, first.received)

	second := posts[1]
	assert.Equal(t, "7999888777666555444", second.activityID)
	assert.Equal(t, "john-doe", second.author)
	assert.Equal(t, "https://www.linkedin.com/posts/john-doe_hiring-activity-7999888777666555444-AbCd", second.url)
}

func TestParsePosts_UnwrapsTrackingRedirects(t *testing.T) {
	html := `<html><body><table><tr><td>
	<a href="https://click.example.com/track?url=https%3A%2F%2Fwww.linkedin.com%2Ffeed%2Fupdate%2Furn%3Ali%3Aactivity%3A7555%2F">
	Pedro needs a landing page for his food truck, $300 budget</a>
	</td></tr></table></body></html>`

	posts := parsePosts(html, received)
	require.Len(t, posts, 1)
	assert.Equal(t, "7555", posts[0].activityID)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:activity:7555/", posts[0].url)
}

// notificationMail wraps html in a multipart/alternative mail the way the
// real notifications arrive, HTML part quoted-printable encoded.
func notificationMail(html string) []byte {
	qp := strings.ReplaceAll(html, "=", "=3D")
	raw := strings.Join([]string{
		"From: LinkedIn <notifications-noreply@linkedin.com>",
		"Subject: New posts match your search",
		"Date: Fri, 03 May 2024 09:30:00 +0000",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"See the post in your feed.",
		"--b1",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		qp,
		"--b1--",
		"",
	}, "\r\n")
	return []byte(raw)
}

func TestPostsFromMessage_DecodesMIME(t *testing.T) {
	html := `<html><body><table><tr><td>` +
		`<a href="https://www.linkedin.com/feed/update/urn:li:activity:7123/">` +
		`Nina needs a web site built for her store</a>` +
		`</td></tr></table></body></html>`

	m := message{
		From: "notifications-noreply@linkedin.com",
		Date: received,
		Raw:  notificationMail(html),
	}

	posts := postsFromMessage(m)
	require.Len(t, posts, 1)
	assert.Equal(t, "7123", posts[0].activityID)
	assert.Equal(t, "Nina needs a web site built for her store", posts[0].text)
	assert.Equal(t, received, posts[0].received)
}

func TestPostsFromMessage_NoHTMLPart(t *testing.T) {
	raw := strings.Join([]string{
		"From: someone@example.com",
		"Subject: plain mail",
		"Content-Type: text/plain",
		"",
		"Just text, no markup.",
		"",
	}, "\r\n")

	posts := postsFromMessage(message{Raw: []byte(raw), Date: received})
	assert.Empty(t, posts)
}

func TestFromLinkedIn(t *testing.T) {
	assert.True(t, fromLinkedIn("notifications-noreply@linkedin.com"))
	assert.True(t, fromLinkedIn("LinkedIn <updates@LinkedIn.com>"))
	assert.False(t, fromLinkedIn("digest@example.com"))
}
