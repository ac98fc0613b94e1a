package instagram

import (
	"strings"
	"testing"
)

func TestProfileURL(t *testing.T) {
	url := ProfileURL(BaseURL, "testuser")
	expected := "https://www.instagram.com/api/v1/users/web_profile_info/?username=testuser"
	if url != expected {
		t.Errorf("ProfileURL() = %v, want %v", url, expected)
	}
}

func TestMediaURL(t *testing.T) {
	url := MediaURL(BaseURL, "12345", "cursor123", 12)

	if !strings.Contains(url, "query_hash="+MediaQueryHash) {
		t.Error("Expected URL to contain query hash")
	}
	if !strings.Contains(url, "12345") {
		t.Error("Expected URL to contain user ID")
	}
	if !strings.Contains(url, "cursor123") {
		t.Error("Expected URL to contain cursor")
	}
}

func TestMediaURLLimitBounds(t *testing.T) {
	url := MediaURL(BaseURL, "12345", "", 0)
	if !strings.Contains(url, `%22first%22%3A12`) {
		t.Errorf("Expected default limit of %d, got %v", DefaultMediaLimit, url)
	}

	url = MediaURL(BaseURL, "12345", "", 500)
	if !strings.Contains(url, `%22first%22%3A50`) {
		t.Errorf("Expected limit capped at %d, got %v", MaxMediaLimit, url)
	}
}

func TestPostURL(t *testing.T) {
	if got := PostURL("ABC123"); got != "https://www.instagram.com/p/ABC123/" {
		t.Errorf("PostURL() = %v", got)
	}
	if got := PostURL(""); got != "" {
		t.Errorf("Expected empty URL for empty shortcode, got %v", got)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"validuser", true},
		{"valid.user_123", true},
		{"", false},
		{"user name", false},
		{"user@name", false},
		{strings.Repeat("a", 31), false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"@someuser", "someuser"},
		{"someuser/", "someuser"},
		{"someuser  ", "someuser"},
		{"@someuser/ ", "someuser"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeUsername(tt.in); got != tt.want {
			t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
