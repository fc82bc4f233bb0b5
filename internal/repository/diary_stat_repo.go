package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type DiaryStatRepo interface {
	Create(ctx context.Context, stat *model.DiaryStat) error
	Delete(ctx context.Context, diaryID uint64) error
	GetByIDs(ctx context.Context, diaryIDs []uint64) ([]*model.DiaryStat, error)
	Save(ctx context.Context, stat *model.DiaryStat) error
	ListPopularByBook(ctx context.Context, bookID uint64, cursor int64, subCursor float64, limit int) ([]*model.DiaryStat, error)
	ListRecentByBook(ctx context.Context, bookID uint64, cursor int64, limit int) ([]*model.DiaryStat, error)
}

type diaryStatRepoImpl struct {
	db *gorm.DB
}

func NewDiaryStatRepo(db *gorm.DB) DiaryStatRepo {
	return &diaryStatRepoImpl{db: db}
}

// Create 插入统计行；重复创建（消息重放）视为成功
func (r *diaryStatRepoImpl) Create(ctx context.Context, stat *model.DiaryStat) error {
	err := r.db.WithContext(ctx).Create(stat).Error
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return nil
	}
	return err
}

func (r *diaryStatRepoImpl) Delete(ctx context.Context, diaryID uint64) error {
	return r.db.WithContext(ctx).
		Where("diary_id = ?", diaryID).
		Delete(&model.DiaryStat{}).Error
}

func (r *diaryStatRepoImpl) GetByIDs(ctx context.Context, diaryIDs []uint64) ([]*model.DiaryStat, error) {
	stats := make([]*model.DiaryStat, 0, len(diaryIDs))
	if len(diaryIDs) == 0 {
		return stats, nil
	}
	result := r.db.WithContext(ctx).
		Where("diary_id IN ?", diaryIDs).
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

// Save 更新计数与热度分；回写任务是唯一的调用方，不需要行锁
func (r *diaryStatRepoImpl) Save(ctx context.Context, stat *model.DiaryStat) error {
	return r.db.WithContext(ctx).
		Model(&model.DiaryStat{}).
		Where("diary_id = ?", stat.DiaryID).
		Updates(map[string]interface{}{
			"view_count":       stat.ViewCount,
			"like_count":       stat.LikeCount,
			"comment_count":    stat.CommentCount,
			"popularity_score": stat.PopularityScore,
		}).Error
}

// ListPopularByBook 按 (热度分 desc, diary_id desc) 取一页。
// 游标条件取严格小于，保证同分行跨页不重复
func (r *diaryStatRepoImpl) ListPopularByBook(ctx context.Context, bookID uint64, cursor int64, subCursor float64, limit int) ([]*model.DiaryStat, error) {
	stats := make([]*model.DiaryStat, 0, limit)
	query := r.db.WithContext(ctx).
		Where("book_id = ?", bookID)

	if cursor > 0 {
		query = query.Where(
			"popularity_score < ? OR (popularity_score = ? AND diary_id < ?)",
			subCursor, subCursor, cursor,
		)
	}

	result := query.
		Order("popularity_score DESC, diary_id DESC").
		Limit(limit).
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

// ListRecentByBook 按 diary_id desc（即创建顺序倒序）取一页
func (r *diaryStatRepoImpl) ListRecentByBook(ctx context.Context, bookID uint64, cursor int64, limit int) ([]*model.DiaryStat, error) {
	stats := make([]*model.DiaryStat, 0, limit)
	query := r.db.WithContext(ctx).
		Where("book_id = ?", bookID)

	if cursor > 0 {
		query = query.Where("diary_id < ?", cursor)
	}

	result := query.
		Order("diary_id DESC").
		Limit(limit).
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}
