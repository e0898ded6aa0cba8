// Package safe_close 提供多组件的优雅关闭协调器
package safe_close

import (
	"sync"
)

// CloseFunc 关闭处理函数
// done 在组件完全退出后调用，closeSignal 关闭时收到信号
type CloseFunc func(done func(), closeSignal <-chan struct{})

// SafeClose 协调多个后台组件的关闭
// Attach 注册组件，SendCloseSignal 广播关闭信号，WaitClosed 等待全部退出
type SafeClose struct {
	mu          sync.Mutex
	wg          sync.WaitGroup
	closeSignal chan struct{}
	closed      bool
	err         error
}

// NewSafeClose 创建 SafeClose 实例
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个组件的运行与关闭逻辑
// f 会在新的 goroutine 中执行
func (s *SafeClose) Attach(f CloseFunc) {
	s.wg.Add(1)
	go f(s.wg.Done, s.closeSignal)
}

// SendCloseSignal 广播关闭信号，err 记录触发关闭的首个错误
// 多次调用只有第一次生效
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.closeSignal)
}

// WaitClosed 阻塞等待所有已注册组件退出
// 返回触发关闭的错误（正常关闭为 nil）
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}
