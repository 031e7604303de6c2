// Package templates renders the transactional emails sent by the worker.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var fs embed.FS

var (
	htmlSet = htmpl.Must(htmpl.New("html").ParseFS(fs, "*.html.tmpl"))
	textSet = texttpl.Must(texttpl.New("text").ParseFS(fs, "*.text.tmpl"))
)

// Subject returns the subject line for a template name.
func Subject(name string, data map[string]any) string {
	switch name {
	case "wishlist_invite":
		return fmt.Sprintf("%v invited you to a wishlist", data["InviterName"])
	case "collaborator_added":
		return fmt.Sprintf("You were added to %q", data["WishlistName"])
	case "welcome":
		return "Welcome aboard"
	default:
		return "Notification"
	}
}

// Render produces subject, text and HTML bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var tb, hb bytes.Buffer
	if err = textSet.ExecuteTemplate(&tb, name+".text.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	if err = htmlSet.ExecuteTemplate(&hb, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	return Subject(name, data), tb.String(), hb.String(), nil
}
