package service

import (
	"Brandscope/internal/model"

	"golang.org/x/sync/singleflight"
)

// RequestCoordinator 并发请求去重
// 键为 "复合键:是否强制"，同键并发请求合并到同一次上游拉取，
// 强制刷新与常规加载互不合并（语义不同，强制方不接受缓存短路）
type RequestCoordinator struct {
	group singleflight.Group
}

func NewRequestCoordinator() *RequestCoordinator {
	return &RequestCoordinator{}
}

func (c *RequestCoordinator) Do(key string, fn func() (*model.Snapshot, error)) (*model.Snapshot, error) {
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	snapshot, ok := v.(*model.Snapshot)
	if !ok {
		return nil, UnExpectedError
	}
	return snapshot, nil
}
