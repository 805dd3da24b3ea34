package utils

import (
	"net/http"
	"strings"
	"testing"
)

func TestHeaderRedactor_IsSensitiveHeader(t *testing.T) {
	hr := NewHeaderRedactor()

	tests := []struct {
		name      string
		sensitive bool
	}{
		{"Authorization", true},
		{"X-Api-Key", true},
		{"Cookie", true},
		{"X-Secret-Token", true},
		{"User-Agent", false},
		{"Accept", false},
	}

	for _, tt := range tests {
		if got := hr.IsSensitiveHeader(tt.name); got != tt.sensitive {
			t.Errorf("IsSensitiveHeader(%q) = %v, want %v", tt.name, got, tt.sensitive)
		}
	}
}

func TestHeaderRedactor_RedactHeaderValue(t *testing.T) {
	hr := NewHeaderRedactor()

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"Bearer仅保留前缀", "Authorization", "Bearer sk-1234567890", "Bearer ***"},
		{"长密钥保留首尾", "X-Api-Key", "abcdefghijkl", "abcd***ijkl"},
		{"短密钥完全隐藏", "X-Token", "short", "***"},
		{"非敏感头部原样返回", "User-Agent", "MyBot/1.0", "MyBot/1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hr.RedactHeaderValue(tt.header, tt.value); got != tt.want {
				t.Errorf("RedactHeaderValue(%q, %q) = %q, want %q", tt.header, tt.value, got, tt.want)
			}
		})
	}
}

func TestHeaderRedactor_Redact(t *testing.T) {
	hr := NewHeaderRedactor()

	headers := http.Header{
		"Authorization": []string{"Bearer secret-token"},
		"User-Agent":    []string{"MyBot/1.0"},
	}

	redacted := hr.Redact(headers)

	if redacted["Authorization"] != "Bearer ***" {
		t.Errorf("Authorization未脱敏: %q", redacted["Authorization"])
	}
	if redacted["User-Agent"] != "MyBot/1.0" {
		t.Errorf("User-Agent不应被脱敏: %q", redacted["User-Agent"])
	}

	// 原始头部不应被修改
	if headers.Get("Authorization") != "Bearer secret-token" {
		t.Error("Redact不应修改原始头部")
	}

	s := hr.RedactToString(headers)
	if strings.Contains(s, "secret-token") {
		t.Errorf("RedactToString泄露了敏感值: %s", s)
	}
}
