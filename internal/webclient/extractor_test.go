package webclient

import (
	"reflect"
	"testing"
)

func TestExtractImageRefs(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "提取多个img标签",
			html: `<html><body><img src="/a.jpg"><p><img src="b.png"></p></body></html>`,
			want: []string{"/a.jpg", "b.png"},
		},
		{
			name: "重复引用只保留一份",
			html: `<div><img src="x.jpg"><img src="x.jpg"><img src="y.jpg"></div>`,
			want: []string{"x.jpg", "y.jpg"},
		},
		{
			name: "忽略data内联图片",
			html: `<img src="data:image/png;base64,iVBOR"><img src="real.jpg">`,
			want: []string{"real.jpg"},
		},
		{
			name: "忽略空src和无src的img",
			html: `<img src=""><img alt="no src"><img src="ok.gif">`,
			want: []string{"ok.gif"},
		},
		{
			name: "残缺HTML仍可提取",
			html: `<body><div><img src="broken.jpg"><p>未闭合的段落<img src="nested.png"`,
			want: []string{"broken.jpg"},
		},
		{
			name: "无img标签返回空",
			html: `<html><body><p>没有图片</p></body></html>`,
			want: []string{},
		},
		{
			name: "返回结果按字典序排序",
			html: `<img src="z.jpg"><img src="a.jpg"><img src="m.jpg">`,
			want: []string{"a.jpg", "m.jpg", "z.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractImageRefs(tt.html).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractImageRefs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefSet(t *testing.T) {
	s := NewRefSet()

	if !s.Add("a") {
		t.Error("首次Add应返回true")
	}
	if s.Add("a") {
		t.Error("重复Add应返回false")
	}
	if !s.Has("a") {
		t.Error("Has应找到已加入的地址")
	}
	if s.Has("b") {
		t.Error("Has不应找到未加入的地址")
	}

	s.Add("c")
	s.Add("b")
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	want := []string{"a", "b", "c"}
	if got := s.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}
