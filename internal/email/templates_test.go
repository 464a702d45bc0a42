package email

import (
	"strings"
	"testing"

	"brieflinks/internal/config"
	"brieflinks/internal/models"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{
		AppBaseURL: "https://app.example.com",
		SiteTitle:  "Leaders Brief",
	})
}

func TestBriefLinkURL(t *testing.T) {
	got := testTemplates().BriefLinkURL("abc123")
	if got != "https://app.example.com/brief/abc123" {
		t.Errorf("BriefLinkURL = %q", got)
	}
}

func TestReminder(t *testing.T) {
	clientEmail := "client@example.com"
	brief := &models.BriefLink{
		Token:        "tok-1",
		CreatorName:  "Dana Levi",
		CreatorEmail: "dana@example.com",
		ClientEmail:  &clientEmail,
	}

	tests := []struct {
		name        string
		language    string
		wantDir     string
		wantSubject string
	}{
		{
			name:        "hebrew default",
			language:    models.LanguageHebrew,
			wantDir:     `dir="rtl"`,
			wantSubject: "client@example.com",
		},
		{
			name:        "english",
			language:    models.LanguageEnglish,
			wantDir:     `dir="ltr"`,
			wantSubject: "Reminder: client@example.com hasn't filled the brief yet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brief.Language = tt.language
			subject, body := testTemplates().Reminder(brief, 8)

			if !strings.Contains(subject, tt.wantSubject) {
				t.Errorf("subject = %q, want it to mention %q", subject, tt.wantSubject)
			}
			if !strings.Contains(subject, "Leaders Brief") {
				t.Errorf("subject = %q, want the site title", subject)
			}
			if !strings.Contains(body, tt.wantDir) {
				t.Errorf("body is missing %s", tt.wantDir)
			}
			if !strings.Contains(body, "Dana Levi") {
				t.Error("body is missing the creator name")
			}
			if !strings.Contains(body, "client@example.com") {
				t.Error("body is missing the client email")
			}
			if !strings.Contains(body, "https://app.example.com/brief/tok-1") {
				t.Error("body is missing the brief deep link")
			}
			if !strings.Contains(body, "8 business days") && !strings.Contains(body, "8 ימי עסקים") {
				t.Error("body is missing the business-day count")
			}
		})
	}
}

func TestReminder_EscapesHTML(t *testing.T) {
	clientEmail := `<script>alert(1)</script>@example.com`
	brief := &models.BriefLink{
		Token:       "tok-2",
		CreatorName: "Dana",
		ClientEmail: &clientEmail,
		Language:    models.LanguageEnglish,
	}

	_, body := testTemplates().Reminder(brief, 7)
	if strings.Contains(body, "<script>") {
		t.Error("client email was not escaped in the body")
	}
}

func TestReminder_NoClientEmail(t *testing.T) {
	brief := &models.BriefLink{
		Token:       "tok-3",
		CreatorName: "Dana",
		Language:    models.LanguageHebrew,
	}

	subject, body := testTemplates().Reminder(brief, 7)
	if subject == "" || body == "" {
		t.Error("expected a rendered reminder even without a client email")
	}
}
