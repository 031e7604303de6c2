package mailer

// Template names understood by the email worker.
const (
	TemplateWishlistInvite    = "wishlist_invite"
	TemplateCollaboratorAdded = "collaborator_added"
	TemplateWelcome           = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or a raw Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
