package webclient

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractImageRefs 从页面HTML中提取所有img标签的src引用
// 解析器对残缺标记容错,尽力构造节点树而不报错;
// 深度优先遍历元素节点,收集非空且非data:内联的src原始值 (仍可能是相对引用)
func ExtractImageRefs(htmlContent string) *RefSet {
	refs := NewRefSet()

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// html.Parse对字符串输入实际不会失败,保险起见返回空集合
		return refs
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key != "src" {
					continue
				}
				if attr.Val != "" && !strings.HasPrefix(attr.Val, "data:") {
					refs.Add(attr.Val)
				}
				break
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return refs
}
