package models

// EventSink 进度事件接收器
// 爬取过程中的状态和保存事件通过该接口同步上报,
// 调用方可以组合多个消费者 (日志面板、进度条等) 而无需改动爬取器
type EventSink interface {
	// OnStatus 上报一条人类可读的状态消息
	OnStatus(message string)

	// OnImageSaved 上报一张图片已保存到本地的最终路径
	OnImageSaved(path string)
}

// NopSink 丢弃所有事件的接收器
type NopSink struct{}

// OnStatus 实现EventSink接口
func (NopSink) OnStatus(string) {}

// OnImageSaved 实现EventSink接口
func (NopSink) OnImageSaved(string) {}

// CollectSink 收集所有事件的接收器 (测试用)
type CollectSink struct {
	Statuses []string // 按顺序收到的状态消息
	Saved    []string // 按顺序收到的保存路径
}

// OnStatus 实现EventSink接口
func (s *CollectSink) OnStatus(message string) {
	s.Statuses = append(s.Statuses, message)
}

// OnImageSaved 实现EventSink接口
func (s *CollectSink) OnImageSaved(path string) {
	s.Saved = append(s.Saved, path)
}
