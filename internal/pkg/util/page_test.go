package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int64
	Score float64
}

func rowID(r row) int64      { return r.ID }
func rowScore(r row) float64 { return r.Score }

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := 0; i < n; i++ {
		rows[i] = row{ID: int64(n - i)} // ID 降序
	}
	return rows
}

func TestToPage_ThreePages(t *testing.T) {
	all := makeRows(25)
	pageSize := 10

	// 第一页：取 11 行
	p1 := ToPage(all[:pageSize+1], pageSize, rowID)
	require.Len(t, p1.Data, 10)
	assert.True(t, p1.HasNext)
	assert.Equal(t, p1.Data[9].ID, p1.NextCursor)
	assert.Equal(t, int64(16), p1.NextCursor)

	// 第二页：从游标之后继续取 11 行
	p2 := ToPage(all[10:21], pageSize, rowID)
	require.Len(t, p2.Data, 10)
	assert.True(t, p2.HasNext)
	assert.Equal(t, int64(6), p2.NextCursor)

	// 第三页：只剩 5 行
	p3 := ToPage(all[20:], pageSize, rowID)
	assert.Len(t, p3.Data, 5)
	assert.False(t, p3.HasNext)
	assert.Equal(t, EndCursor, p3.NextCursor)
}

func TestToPage_Empty(t *testing.T) {
	p := ToPage([]row{}, 10, rowID)
	assert.Empty(t, p.Data)
	assert.False(t, p.HasNext)
	assert.Equal(t, EndCursor, p.NextCursor)
}

func TestToPage_ExactPageSize(t *testing.T) {
	// 数据源正好返回 pageSize 行，说明没有更多
	p := ToPage(makeRows(10), 10, rowID)
	assert.Len(t, p.Data, 10)
	assert.False(t, p.HasNext)
	assert.Equal(t, EndCursor, p.NextCursor)
}

func TestToDualPage_BoundaryKeys(t *testing.T) {
	rows := []row{
		{ID: 9, Score: 5.0},
		{ID: 8, Score: 3.0},
		{ID: 7, Score: 3.0},
		{ID: 6, Score: 1.0},
	}

	p := ToDualPage(rows, 3, rowID, rowScore)
	require.Len(t, p.Data, 3)
	assert.True(t, p.HasNext)
	assert.Equal(t, int64(7), p.NextCursor)
	assert.Equal(t, 3.0, p.NextSubCursor)
}

// 模拟数据源：按 (score desc, id desc) 排序，支持复合游标续查
func fetchByScore(all []row, cursor int64, subCursor float64, limit int) []row {
	sorted := make([]row, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ID > sorted[j].ID
	})

	var out []row
	for _, r := range sorted {
		if cursor > 0 {
			if !(r.Score < subCursor || (r.Score == subCursor && r.ID < cursor)) {
				continue
			}
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func TestToDualPage_TiedScoresNoDupNoSkip(t *testing.T) {
	// 大量同分行，验证跨页不重复、不遗漏
	all := make([]row, 0, 23)
	for i := 1; i <= 23; i++ {
		all = append(all, row{ID: int64(i), Score: float64(i % 3)})
	}

	pageSize := 5
	seen := make(map[int64]bool)

	cursor, subCursor := int64(0), 0.0
	for page := 0; page < 10; page++ {
		rows := fetchByScore(all, cursor, subCursor, pageSize+1)
		p := ToDualPage(rows, pageSize, rowID, rowScore)

		for _, r := range p.Data {
			assert.False(t, seen[r.ID], "id %d returned twice", r.ID)
			seen[r.ID] = true
		}

		if !p.HasNext {
			break
		}
		cursor, subCursor = p.NextCursor, p.NextSubCursor
	}

	assert.Len(t, seen, len(all))
}
