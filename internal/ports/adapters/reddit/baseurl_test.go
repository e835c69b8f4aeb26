package reddit

import "testing"

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		allowedHosts []string
		wantErr      bool
	}{
		{
			name:    "empty falls back to default",
			baseURL: "",
		},
		{
			name:    "old reddit with https",
			baseURL: "https://old.reddit.com/",
		},
		{
			name:    "reject non-absolute URL",
			baseURL: "www.reddit.com",
			wantErr: true,
		},
		{
			name:    "reject http by default",
			baseURL: "http://www.reddit.com",
			wantErr: true,
		},
		{
			name:    "reject unknown host by default",
			baseURL: "https://evil.example",
			wantErr: true,
		},
		{
			name:         "allow configured host",
			baseURL:      "https://mirror.internal",
			allowedHosts: []string{" https://mirror.internal/ "},
		},
		{
			name:    "reject query",
			baseURL: "https://www.reddit.com?x=1",
			wantErr: true,
		},
		{
			name:    "reject userinfo",
			baseURL: "https://user:pw@www.reddit.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.baseURL, tt.allowedHosts)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeAllowedHosts_DefaultWhenEmpty(t *testing.T) {
	out := normalizeAllowedHosts([]string{" ", "https://", "http://"})
	if len(out) != len(defaultAllowedHosts) {
		t.Fatalf("expected default allowed hosts, got %v", out)
	}
}
