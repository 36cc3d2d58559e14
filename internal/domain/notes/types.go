package notes

// Note is a view of one note file. Filename is its only durable identity;
// Title is derived from it.
type Note struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// SaveResult reports the outcome of a save dialog backed export
type SaveResult struct {
	Saved bool   `json:"saved"`
	Path  string `json:"path,omitempty"`
	Count int    `json:"count,omitempty"`
}

// Rendered is a note converted to sanitized HTML
type Rendered struct {
	Filename string `json:"filename"`
	HTML     string `json:"html"`
	Heading  string `json:"heading,omitempty"`
}
