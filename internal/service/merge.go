package service

import (
	"Brandscope/internal/model"
	"sort"
)

// 帖子合并规则独立成纯函数：全量拉取整体替换，快速拉取按 id 并集，
// 同一 id 播放量只增不减（上游计数不会合法回落）

// DedupePosts 同一批结果内按 id 去重，保留播放量更高的那条
func DedupePosts(posts []model.Post) []model.Post {
	byID := make(map[string]model.Post, len(posts))
	order := make([]string, 0, len(posts))
	for _, p := range posts {
		existing, ok := byID[p.ID]
		if !ok {
			byID[p.ID] = p
			order = append(order, p.ID)
			continue
		}
		if p.Views > existing.Views {
			byID[p.ID] = p
		}
	}

	out := make([]model.Post, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// MergePosts 合并缓存帖子与新拉取的帖子
// 全量拉取的结果是权威且完整的，整体替换（即使更少，比如视频被删）；
// 快速拉取只看得到最近一页，与旧集合做并集，避免淘汰历史帖子
func MergePosts(cached []model.Post, fetched []model.Post, fullFetch bool) []model.Post {
	fetched = DedupePosts(fetched)
	if fullFetch {
		return fetched
	}

	byID := make(map[string]model.Post, len(cached)+len(fetched))
	order := make([]string, 0, len(cached)+len(fetched))
	for _, p := range cached {
		if _, ok := byID[p.ID]; !ok {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}
	for _, p := range fetched {
		existing, ok := byID[p.ID]
		if !ok {
			order = append(order, p.ID)
			byID[p.ID] = p
			continue
		}
		if p.Views < existing.Views {
			p.Views = existing.Views
		}
		byID[p.ID] = p
	}

	out := make([]model.Post, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// SortPostsByPublishedDesc 按发布时间倒序，缺失时间的排在最后
func SortPostsByPublishedDesc(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		pi, pj := posts[i].PublishedAt, posts[j].PublishedAt
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return pi.After(*pj)
	})
}

// SumPostViews 帖子播放量求和
func SumPostViews(posts []model.Post) int64 {
	var total int64
	for _, p := range posts {
		total += p.Views
	}
	return total
}
