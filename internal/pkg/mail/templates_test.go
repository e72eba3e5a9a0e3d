package mail

import (
	"strings"
	"testing"
)

func TestRenderEventAnnouncement(t *testing.T) {
	html, err := RenderEventAnnouncement(EventAnnouncementData{
		SiteName:       "FLYBOY",
		Title:          "Warehouse Night",
		Description:    "All night long.",
		Venue:          "The Docks",
		City:           "Rotterdam",
		When:           "Sat, 6 Sep 2026 23:00",
		DetailURL:      "https://flyboy.example/events/abc",
		UnsubscribeURL: "https://flyboy.example/api/v1/subscribe/cancel?token=x",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"Warehouse Night",
		"The Docks",
		"Rotterdam",
		"https://flyboy.example/events/abc",
		"Unsubscribe",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered html missing %q", want)
		}
	}
}

func TestRenderEventAnnouncementOmitsEmptySections(t *testing.T) {
	html, err := RenderEventAnnouncement(EventAnnouncementData{
		Title:       "Secret Set",
		Description: "Location TBA.",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Venue:") {
		t.Fatal("empty venue must not render")
	}
	if strings.Contains(html, "View event") {
		t.Fatal("missing detail url must not render a button")
	}
	if !strings.Contains(html, "FLYBOY") {
		t.Fatal("site name must fall back to the default")
	}
}

func TestRenderEventAnnouncementEscapesHTML(t *testing.T) {
	html, err := RenderEventAnnouncement(EventAnnouncementData{
		Title:       `<script>alert("x")</script>`,
		Description: "fine",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("template must escape markup in user data")
	}
}
