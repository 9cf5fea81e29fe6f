package domain

// Source identifies where a lead was discovered.
type Source string

const (
	SourceReddit       Source = "reddit"
	SourceTwitter      Source = "twitter"
	SourceLinkedIn     Source = "linkedin"
	SourceIndieHackers Source = "indiehackers"
	SourceDemo         Source = "demo" // synthetic, generated locally
)

// KnownSource reports whether s is one of the declared source values.
func KnownSource(s Source) bool {
	switch s {
	case SourceReddit, SourceTwitter, SourceLinkedIn, SourceIndieHackers, SourceDemo:
		return true
	}
	return false
}

// Intent buckets how ready a prospect sounds to commission work.
type Intent string

const (
	IntentLow    Intent = "low"
	IntentMedium Intent = "medium"
	IntentHigh   Intent = "high"
)

// Lead is one scored prospect. The JSON names are a wire format: leads.json
// is read by the dashboard, so renaming a field here breaks it.
type Lead struct {
	ID          string `json:"id"`
	Source      Source `json:"source"`
	SourceName  string `json:"sourceName"` // display label: r/webdev, Twitter, ...
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	// Kept as a string so timestamps written by other tools round-trip
	// byte-for-byte. Builders emit RFC 3339 UTC.
	Timestamp    string   `json:"timestamp"`
	Tags         []string `json:"tags"`
	Intent       Intent   `json:"intent"`
	Budget       string   `json:"budget,omitempty"`
	Score        int      `json:"score"`
	DesignMockup string   `json:"designMockup"`
	DesignNotes  string   `json:"designNotes"`
	// Contacted and Notes are owned by the dashboard. The pipeline sets the
	// zero values on new leads and must never touch them afterwards.
	Contacted bool   `json:"contacted"`
	Notes     string `json:"notes"`
}
