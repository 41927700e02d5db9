package service

import (
	"Brandscope/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func post(id string, views int64) model.Post {
	return model.Post{ID: id, Views: views}
}

func TestDedupePosts_KeepsHigherViews(t *testing.T) {
	out := DedupePosts([]model.Post{
		post("a", 100),
		post("b", 50),
		post("a", 300),
	})

	assert.Len(t, out, 2)
	assert.Equal(t, int64(300), out[0].Views)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestMergePosts_FullFetchReplaces(t *testing.T) {
	cached := []model.Post{post("old-1", 10), post("old-2", 20)}
	fetched := []model.Post{post("new-1", 5)}

	out := MergePosts(cached, fetched, true)

	// 全量结果是权威的，即使更少也整体替换
	assert.Len(t, out, 1)
	assert.Equal(t, "new-1", out[0].ID)
}

func TestMergePosts_QuickFetchUnions(t *testing.T) {
	cached := []model.Post{post("a", 100), post("b", 200)}
	fetched := []model.Post{post("b", 250), post("c", 10)}

	out := MergePosts(cached, fetched, false)

	assert.Len(t, out, 3)
	byID := make(map[string]int64)
	for _, p := range out {
		byID[p.ID] = p.Views
	}
	assert.Equal(t, int64(100), byID["a"])
	assert.Equal(t, int64(250), byID["b"])
	assert.Equal(t, int64(10), byID["c"])
}

func TestMergePosts_QuickFetchNeverLowersViews(t *testing.T) {
	cached := []model.Post{post("a", 1000)}
	fetched := []model.Post{post("a", 900)}

	out := MergePosts(cached, fetched, false)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1000), out[0].Views)
}

func TestMergePosts_QuickFetchUpdatesOtherFields(t *testing.T) {
	cached := []model.Post{{ID: "a", Views: 100, Caption: "old caption"}}
	fetched := []model.Post{{ID: "a", Views: 80, Caption: "new caption", Likes: 7}}

	out := MergePosts(cached, fetched, false)

	// 播放量保底，其余字段以新拉取为准
	assert.Equal(t, int64(100), out[0].Views)
	assert.Equal(t, "new caption", out[0].Caption)
	assert.Equal(t, int64(7), out[0].Likes)
}

func TestSortPostsByPublishedDesc(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	posts := []model.Post{
		{ID: "no-date"},
		{ID: "older", PublishedAt: &t1},
		{ID: "newer", PublishedAt: &t2},
	}
	SortPostsByPublishedDesc(posts)

	assert.Equal(t, "newer", posts[0].ID)
	assert.Equal(t, "older", posts[1].ID)
	assert.Equal(t, "no-date", posts[2].ID)
}

func TestSumPostViews(t *testing.T) {
	assert.Equal(t, int64(0), SumPostViews(nil))
	assert.Equal(t, int64(350), SumPostViews([]model.Post{post("a", 100), post("b", 250)}))
}
