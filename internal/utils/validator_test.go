package utils

import (
	"net/http"
	"strings"
	"testing"
)

func TestHeaderValidator_ValidateName(t *testing.T) {
	hv := NewHeaderValidator()

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"合法名称", "User-Agent", false},
		{"合法自定义头部", "X-Custom-Header", false},
		{"数字名称", "X-123", false},
		{"空名称", "", true},
		{"包含空格", "User Agent", true},
		{"包含冒号", "User:Agent", true},
		{"包含中文", "用户代理", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hv.ValidateName(tt.header)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
		})
	}
}

func TestHeaderValidator_ValidateValue(t *testing.T) {
	hv := NewHeaderValidator()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"普通值", "Mozilla/5.0", false},
		{"空值", "", false},
		{"带制表符", "a\tb", false},
		{"控制字符", "a\x00b", true},
		{"换行符", "a\nb", true},
		{"超长值", strings.Repeat("a", MaxHeaderValueLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hv.ValidateValue("X-Test", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateValue() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeaderValidator_ForbiddenHeaders(t *testing.T) {
	hv := NewHeaderValidator()

	for _, name := range ForbiddenHeaders {
		if !hv.IsForbidden(name) {
			t.Errorf("IsForbidden(%q) = false, 期望true", name)
		}
		// 大小写不敏感
		if !hv.IsForbidden(strings.ToLower(name)) {
			t.Errorf("IsForbidden(%q) 应不区分大小写", strings.ToLower(name))
		}
	}

	if hv.IsForbidden("Cookie") {
		t.Error("Cookie不应被禁止")
	}

	if err := hv.ValidateHeader("Host", "example.com"); err == nil {
		t.Error("禁止头部应验证失败")
	}
}

func TestHeaderValidator_Validate(t *testing.T) {
	hv := NewHeaderValidator()

	valid := http.Header{
		"User-Agent": []string{"MyBot/1.0"},
		"Cookie":     []string{"session=abc"},
	}
	if err := hv.Validate(valid); err != nil {
		t.Errorf("合法头部验证失败: %v", err)
	}

	invalid := http.Header{
		"X-Bad": []string{"值\n带换行"},
	}
	if err := hv.Validate(invalid); err == nil {
		t.Error("非法头部应验证失败")
	}
}
