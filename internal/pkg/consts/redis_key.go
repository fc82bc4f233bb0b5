package consts

import "strconv"

// 计数指标名，同时作为计数 Key 的后缀
const (
	MetricView    = "view"
	MetricLike    = "like"
	MetricComment = "comment"
)

const (
	// DiaryDirtyKey 待回写日记 ID 集合
	DiaryDirtyKey = "diaries:dirty"

	diaryKeyPrefix        = "diaries:"
	diaryViewLogSuffix    = ":views:log"
	diaryPopularKeyPrefix = "diaries:popular:member:"
	diaryPopularBookPart  = ":book:"
)

// DiaryCountKey 单项计数 Key：diaries:{diaryId}:{metric}
func DiaryCountKey(diaryID uint64, metric string) string {
	return diaryKeyPrefix + strconv.FormatUint(diaryID, 10) + ":" + metric
}

// DiaryViewLogKey 浏览去重集合 Key：diaries:{diaryId}:views:log
func DiaryViewLogKey(diaryID uint64) string {
	return diaryKeyPrefix + strconv.FormatUint(diaryID, 10) + diaryViewLogSuffix
}

// DiaryPopularKey 作者+书维度的实时排行榜 Key：diaries:popular:member:{userId}:book:{bookId}
func DiaryPopularKey(userID, bookID uint64) string {
	return diaryPopularKeyPrefix + strconv.FormatUint(userID, 10) +
		diaryPopularBookPart + strconv.FormatUint(bookID, 10)
}
