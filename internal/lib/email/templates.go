package email

import "embed"

// Template names an HTML file under templates/.
type Template string

const (
	// TemplateNewSubscriber tells the site owner someone joined the list.
	TemplateNewSubscriber Template = "new_subscriber"
)

//go:embed templates/*.html
var templateFS embed.FS
