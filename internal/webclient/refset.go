package webclient

import "sort"

// RefSet 去重的地址集合
// 仅在单线程的爬取循环中使用,不做并发保护
type RefSet struct {
	seen map[string]struct{}
}

// NewRefSet 创建空集合
func NewRefSet() *RefSet {
	return &RefSet{
		seen: make(map[string]struct{}),
	}
}

// Add 加入一个地址,返回是否为首次加入
func (s *RefSet) Add(ref string) bool {
	if _, exists := s.seen[ref]; exists {
		return false
	}
	s.seen[ref] = struct{}{}
	return true
}

// Has 检查地址是否已在集合中
func (s *RefSet) Has(ref string) bool {
	_, exists := s.seen[ref]
	return exists
}

// Len 返回集合大小
func (s *RefSet) Len() int {
	return len(s.seen)
}

// Sorted 按字典序返回全部地址
// 跳过窗口作用于该顺序,"前N张"和"后N张"指排序后的位置
func (s *RefSet) Sorted() []string {
	refs := make([]string, 0, len(s.seen))
	for ref := range s.seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
