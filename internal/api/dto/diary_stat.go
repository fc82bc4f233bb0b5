package dto

// DiaryCountsDTO 单篇日记的实时计数
type DiaryCountsDTO struct {
	DiaryID      uint64 `json:"diary_id"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

// DiaryStatDTO 持久化统计行（含衰减后的热度分）
type DiaryStatDTO struct {
	DiaryID         uint64  `json:"diary_id"`
	BookID          uint64  `json:"book_id"`
	UserID          uint64  `json:"user_id"`
	ViewCount       int64   `json:"view_count"`
	LikeCount       int64   `json:"like_count"`
	CommentCount    int64   `json:"comment_count"`
	PopularityScore float64 `json:"popularity_score"`
}

// RankedPageDTO 实时排行榜分页
type RankedPageDTO struct {
	DiaryIDs []uint64 `json:"diary_ids"`
	HasNext  bool     `json:"has_next"`
}

// DiaryFeedDTO 单游标分页（按时间倒序）
type DiaryFeedDTO struct {
	Data       []*DiaryStatDTO `json:"data"`
	NextCursor int64           `json:"next_cursor"`
	HasNext    bool            `json:"has_next"`
}

// DiaryPopularFeedDTO 双游标分页（按热度分倒序，分数可能重复）
type DiaryPopularFeedDTO struct {
	Data          []*DiaryStatDTO `json:"data"`
	NextCursor    int64           `json:"next_cursor"`
	NextSubCursor float64         `json:"next_sub_cursor"`
	HasNext       bool            `json:"has_next"`
}

// ReconcileResultDTO 回写任务执行结果
type ReconcileResultDTO struct {
	Processed int `json:"processed"`
	Batches   int `json:"batches"`
}
