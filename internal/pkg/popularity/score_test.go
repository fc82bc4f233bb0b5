package popularity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore_ZeroAge(t *testing.T) {
	// 新内容不衰减，分数等于加权和
	assert.InDelta(t, 10*0.1+3*2.0+2*5.0, Score(10, 3, 2, 0), 1e-9)
	assert.Equal(t, 0.0, Score(0, 0, 0, 0))
}

func TestScore_MonotonicDecay(t *testing.T) {
	prev := Score(100, 50, 20, 0)
	for d := int64(1); d <= 365; d++ {
		cur := Score(100, 50, 20, d)
		assert.Less(t, cur, prev, "day %d", d)
		assert.Greater(t, cur, 0.0, "day %d", d)
		prev = cur
	}
}

func TestDecay(t *testing.T) {
	assert.Equal(t, 1.0, Decay(0))
	assert.InDelta(t, 1.0/1.1, Decay(1), 1e-9)
	assert.InDelta(t, 1.0/2.0, Decay(10), 1e-9)
	// 负数视为 0 天
	assert.Equal(t, 1.0, Decay(-5))
}

func TestAgeInDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(0), AgeInDays(now, now))
	assert.Equal(t, int64(0), AgeInDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, int64(1), AgeInDays(now.Add(-25*time.Hour), now))
	assert.Equal(t, int64(7), AgeInDays(now.AddDate(0, 0, -7), now))
	// 创建时间晚于评估时间按 0 天处理
	assert.Equal(t, int64(0), AgeInDays(now.Add(time.Hour), now))
}
