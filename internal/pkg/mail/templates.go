package mail

import (
	"bytes"
	"context"
	"html/template"
	"time"
)

const eventAnnouncementTpl = `<!DOCTYPE html>
<html>
<body style="background-color:#0b0b0f;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem;color:#f4f4f5">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-radius:.375rem;margin:40px auto;padding:20px;width:550px;border:1px solid rgb(244,63,94);overflow:hidden">
    <tbody>
      <tr><td>
        <p style="font-size:14px;line-height:24px;margin:16px 0">{{.SiteName}} just announced a new event:</p>
        <h1 style="font-size:22px;text-align:center;color:#fff">{{.Title}}</h1>
        {{if .ImageURL}}
        <img src="{{.ImageURL}}" style="display:block;outline:none;border:none;margin:16px auto;border-radius:.5rem;max-width:100%" />
        {{end}}
        <p style="font-size:14px;line-height:24px;margin:16px 0">{{.Description}}</p>
        {{if .Venue}}<p style="font-size:13px;line-height:20px;margin:8px 0;color:#a1a1aa">Venue: {{.Venue}}{{if .City}}, {{.City}}{{end}}</p>{{end}}
        {{if .When}}<p style="font-size:13px;line-height:20px;margin:8px 0;color:#a1a1aa">When: {{.When}}</p>{{end}}
        {{if .DetailURL}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.DetailURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;padding:12px 20px;background-color:rgb(244,63,94);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600">View event</a>
          </td></tr></tbody>
        </table>
        {{end}}
        <hr style="width:100%;border:none;border-top:1px solid #27272a" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:#71717a">You receive this because you subscribed to {{.SiteName}} updates.{{if .UnsubscribeURL}} <a href="{{.UnsubscribeURL}}" style="color:#71717a">Unsubscribe</a>{{end}}<br />&copy;{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const subscribeWelcomeTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#0b0b0f;padding:20px;color:#f4f4f5">
<div style="max-width:600px;margin:0 auto;background:#18181b;border-radius:8px;padding:24px">
  <h2 style="color:#fff">You're on the list</h2>
  <p>Thanks for subscribing to {{.SiteName}}. We'll let you know about new events and drops.</p>
  {{if .UnsubscribeURL}}
  <p style="color:#71717a;font-size:12px">Changed your mind? <a href="{{.UnsubscribeURL}}" style="color:#71717a">Unsubscribe</a>.</p>
  {{end}}
</div>
</body>
</html>`

// EventAnnouncementData is the data for event broadcast emails.
type EventAnnouncementData struct {
	SiteName       string
	Title          string
	Description    string
	Venue          string
	City           string
	When           string
	ImageURL       string
	DetailURL      string
	UnsubscribeURL string
}

// SubscribeWelcomeData is the data for the subscription confirmation email.
type SubscribeWelcomeData struct {
	SiteName       string
	UnsubscribeURL string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderEventAnnouncement renders the HTML body for an event broadcast.
func RenderEventAnnouncement(data EventAnnouncementData) (string, error) {
	if data.SiteName == "" {
		data.SiteName = "FLYBOY"
	}
	return renderTemplate(eventAnnouncementTpl, data)
}

// SendSubscribeWelcome sends a confirmation email to a new subscriber.
func (s *Sender) SendSubscribeWelcome(ctx context.Context, to string, data SubscribeWelcomeData) error {
	if data.SiteName == "" {
		data.SiteName = "FLYBOY"
	}
	html, err := renderTemplate(subscribeWelcomeTpl, data)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{
		To:      []string{to},
		Subject: "Welcome to the " + data.SiteName + " list",
		HTML:    html,
	})
}
