package model

import (
	"Inkstone/internal/pkg/popularity"
	"time"
)

// DiaryStat 日记统计行，随日记创建而创建、删除而删除。
// 计数与热度分只由回写任务更新，CreatedAt 固定为日记创建时间，用于衰减计算。
type DiaryStat struct {
	DiaryID         uint64    `gorm:"primaryKey;column:diary_id"`
	BookID          uint64    `gorm:"not null;index:idx_book_score,priority:1;index:idx_book_diary,priority:1"`
	UserID          uint64    `gorm:"not null;index"`
	ViewCount       int64     `gorm:"not null;default:0"`
	LikeCount       int64     `gorm:"not null;default:0"`
	CommentCount    int64     `gorm:"not null;default:0"`
	PopularityScore float64   `gorm:"not null;default:0;index:idx_book_score,priority:2"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (DiaryStat) TableName() string {
	return "diary_stats"
}

// Apply 用缓存中的当前计数覆盖统计值并重算热度分。
// 负计数（乱序的取消事件可能造成）在落库前钳到 0。
func (s *DiaryStat) Apply(viewCount, likeCount, commentCount int64, now time.Time) {
	s.ViewCount = clampNonNegative(viewCount)
	s.LikeCount = clampNonNegative(likeCount)
	s.CommentCount = clampNonNegative(commentCount)

	age := popularity.AgeInDays(s.CreatedAt, now)
	s.PopularityScore = popularity.Score(s.ViewCount, s.LikeCount, s.CommentCount, age)
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
