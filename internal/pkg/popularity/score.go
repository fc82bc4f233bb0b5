package popularity

import "time"

// 各互动行为的权重，计数回写与实时排行榜共用
const (
	WeightView    = 0.1
	WeightLike    = 2.0
	WeightComment = 5.0
)

const decayFactor = 0.1

// Score 计算时间衰减后的热度分
// 公式：(view*0.1 + like*2.0 + comment*5.0) * 1/(1+0.1*天数)
func Score(viewCount, likeCount, commentCount int64, ageInDays int64) float64 {
	base := float64(viewCount)*WeightView +
		float64(likeCount)*WeightLike +
		float64(commentCount)*WeightComment
	return base * Decay(ageInDays)
}

// Decay 返回衰减系数，随天数单调递减但永不为 0
func Decay(ageInDays int64) float64 {
	if ageInDays < 0 {
		ageInDays = 0
	}
	return 1 / (1 + decayFactor*float64(ageInDays))
}

// AgeInDays 计算创建时间到评估时间经过的完整天数
func AgeInDays(createdAt, now time.Time) int64 {
	if now.Before(createdAt) {
		return 0
	}
	return int64(now.Sub(createdAt).Hours() / 24)
}
