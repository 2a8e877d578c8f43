package media

import "testing"

func TestPlaceholderAvatar(t *testing.T) {
	url := PlaceholderAvatar("  Bruno ")
	want := "https://api.adorable.io/avatars/285/bruno@tutorhub.png"
	if url != want {
		t.Errorf("PlaceholderAvatar() = %q, want %q", url, want)
	}
	if !IsPlaceholder(url) {
		t.Error("IsPlaceholder() should be true for a generated placeholder")
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"generated placeholder", PlaceholderAvatar("diego"), true},
		{"empty avatar", "", true},
		{"uploaded avatar", "https://media.tutorhub.dev/avatars/cr2fp3q.png", false},
		{"external avatar", "https://example.com/me.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlaceholder(tt.url); got != tt.want {
				t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
