package email

import (
	"fmt"
	"html"
	"time"

	"brieflinks/internal/config"
	"brieflinks/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// BriefLinkURL builds the client-facing deep link for a brief token.
func (t *Templates) BriefLinkURL(token string) string {
	return t.cfg.AppBaseURL + "/brief/" + token
}

// Reminder generates the follow-up email sent to a creator about a brief
// their client has not filled yet. The template is selected by the link's
// language and names the elapsed business-day count used for eligibility.
func (t *Templates) Reminder(brief *models.BriefLink, businessDays int) (subject, htmlBody string) {
	creatorName := brief.CreatorDisplayName()
	clientEmail := ""
	if brief.ClientEmail != nil {
		clientEmail = *brief.ClientEmail
	}
	briefLink := t.BriefLinkURL(brief.Token)

	if brief.Language == models.LanguageEnglish {
		subject = fmt.Sprintf("Reminder: %s hasn't filled the brief yet — %s", clientEmail, t.cfg.SiteTitle)
		message := fmt.Sprintf(
			`The brief sent to <strong style="color:#f0c040">%s</strong> has not been filled yet. It has been <strong style="color:#e94560">%d business days</strong> since it was sent.`,
			html.EscapeString(clientEmail), businessDays)
		htmlBody = t.reminderHTML(reminderContent{
			dir:         "ltr",
			lang:        "en",
			title:       "Follow-Up Reminder",
			badge:       "&#9888; PENDING BRIEF",
			greeting:    fmt.Sprintf("Hello %s,", html.EscapeString(creatorName)),
			message:     message,
			adviceLabel: "&#9679; RECOMMENDED ACTION",
			advice:      "We recommend reaching out to the client and reminding them to fill out the brief. You can resend the link below or contact them directly.",
			buttonText:  "View Brief Link",
			footer:      fmt.Sprintf(`Automatic reminder from <strong style="color:#e94560">%s</strong>`, html.EscapeString(t.cfg.SiteTitle)),
			briefLink:   briefLink,
		})
		return subject, htmlBody
	}

	// Hebrew (default)
	subject = fmt.Sprintf("תזכורת: %s טרם מילא את הבריף — %s", clientEmail, t.cfg.SiteTitle)
	message := fmt.Sprintf(
		`הבריף שנשלח ל-<strong style="color:#f0c040">%s</strong> טרם מולא. עברו <strong style="color:#e94560">%d ימי עסקים</strong> מאז השליחה.`,
		html.EscapeString(clientEmail), businessDays)
	htmlBody = t.reminderHTML(reminderContent{
		dir:         "rtl",
		lang:        "he",
		title:       "תזכורת מעקב",
		badge:       "&#9888; בריף ממתין",
		greeting:    fmt.Sprintf("שלום %s,", html.EscapeString(creatorName)),
		message:     message,
		adviceLabel: "&#9679; מה מומלץ לעשות?",
		advice:      "מומלץ ליצור קשר עם הלקוח ולהזכיר לו למלא את הבריף. ניתן לשלוח מחדש את הקישור למטה או לפנות ישירות.",
		buttonText:  "צפה בקישור הבריף",
		footer:      fmt.Sprintf(`תזכורת אוטומטית מ-<strong style="color:#e94560">%s</strong>`, html.EscapeString(t.cfg.SiteTitle)),
		briefLink:   briefLink,
	})
	return subject, htmlBody
}

type reminderContent struct {
	dir, lang   string
	title       string
	badge       string
	greeting    string
	message     string
	adviceLabel string
	advice      string
	buttonText  string
	footer      string
	briefLink   string
}

// reminderHTML renders the shared table-based layout used by both language
// variants of the reminder email.
func (t *Templates) reminderHTML(c reminderContent) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html dir="%s" lang="%s">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f0f0f8;font-family:Arial,Helvetica,sans-serif;direction:%s;color:#1a1a2e;line-height:1.8">
<table width="100%%" cellpadding="0" cellspacing="0" border="0" style="background-color:#f0f0f8;padding:40px 20px">
<tr><td align="center">
<table width="600" cellpadding="0" cellspacing="0" border="0" style="background-color:#ffffff;border-radius:12px;overflow:hidden;box-shadow:0 4px 24px rgba(26,26,46,0.08)">

<tr><td align="center" style="padding:50px 40px 5px">
<div style="font-size:28px;font-weight:bold;color:#1a1a2e;margin:0">%s</div>
</td></tr>
<tr><td align="center" style="padding:8px 0 30px">
<table cellpadding="0" cellspacing="0" border="0"><tr><td style="background-color:#f0c040;height:3px;width:60px;font-size:1px;line-height:3px">&nbsp;</td></tr></table>
</td></tr>

<tr><td style="padding:0 40px">
<table width="100%%" cellpadding="24" cellspacing="0" border="0" style="background-color:#1a1a2e;border-radius:10px;margin-bottom:24px">
<tr><td>
<div style="font-size:10px;font-weight:bold;color:#f0c040;text-transform:uppercase;margin-bottom:10px">%s</div>
<div style="font-size:20px;font-weight:bold;color:#ffffff;margin-bottom:12px">%s</div>
<div style="font-size:16px;color:#ffffff;line-height:1.8;opacity:0.9">%s</div>
</td></tr>
</table>

<table width="100%%" cellpadding="20" cellspacing="0" border="0" style="background-color:#fafbfe;border:1px solid #f0f0f8;border-radius:10px;margin-bottom:28px">
<tr><td>
<div style="font-size:10px;font-weight:bold;color:#e94560;text-transform:uppercase;margin-bottom:10px">%s</div>
<div style="font-size:14px;color:#1a1a2e;line-height:1.9">%s</div>
</td></tr>
</table>

<table width="100%%" cellpadding="0" cellspacing="0" border="0"><tr><td align="center" style="padding:0 0 36px">
<a href="%s" target="_blank" style="display:inline-block;background-color:#e94560;color:#ffffff;text-decoration:none;font-size:16px;font-weight:bold;padding:14px 48px;border-radius:8px;letter-spacing:0.5px">%s</a>
</td></tr></table>

</td></tr>

<tr><td style="background-color:#1a1a2e;padding:28px 40px;text-align:center">
<div style="font-size:12px;color:#8e8ea0;margin-bottom:4px">%s</div>
<div style="font-size:11px;color:rgba(255,255,255,0.3)">&copy; %d %s. All rights reserved.</div>
</td></tr>

</table>
</td></tr></table>
</body>
</html>`,
		c.dir, c.lang, c.dir,
		c.title,
		c.badge, c.greeting, c.message,
		c.adviceLabel, c.advice,
		c.briefLink, c.buttonText,
		c.footer,
		time.Now().Year(), html.EscapeString(t.cfg.SiteTitle),
	)
}
