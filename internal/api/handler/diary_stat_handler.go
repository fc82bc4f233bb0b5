package handler

import (
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type DiaryStatHandler struct {
	statSvc service.DiaryStatService
}

func NewDiaryStatHandler(statSvc service.DiaryStatService) *DiaryStatHandler {
	return &DiaryStatHandler{
		statSvc: statSvc,
	}
}

// GetCounts 批量获取日记实时计数
func (h *DiaryStatHandler) GetCounts(c *gin.Context) {
	idsStr := c.Query("ids")
	if idsStr == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	parts := strings.Split(idsStr, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		ids = append(ids, id)
	}

	counts, err := h.statSvc.GetCounts(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, counts)
}

// GetPopularRanked 获取作者+书维度的实时排行榜分页
func (h *DiaryStatHandler) GetPopularRanked(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	bookID, err := strconv.ParseUint(c.Param("book_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page := parseIntDefault(c.Query("page"), 0)
	size := parsePageSize(c.Query("size"))
	if page < 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	ranked, err := h.statSvc.GetPopularRanked(c.Request.Context(), userID, bookID, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ranked)
}

// GetPopularFeed 获取全书热度 Feed（双游标）
func (h *DiaryStatHandler) GetPopularFeed(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("book_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	size := parsePageSize(c.Query("size"))
	cursor := parseInt64Default(c.Query("cursor"), 0)

	subCursor := 0.0
	if s := c.Query("sub_cursor"); s != "" {
		subCursor, err = strconv.ParseFloat(s, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
	}

	feed, err := h.statSvc.GetPopularFeed(c.Request.Context(), bookID, cursor, subCursor, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// GetRecentFeed 获取全书时间倒序 Feed（单游标）
func (h *DiaryStatHandler) GetRecentFeed(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("book_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	size := parsePageSize(c.Query("size"))
	cursor := parseInt64Default(c.Query("cursor"), 0)

	feed, err := h.statSvc.GetRecentFeed(c.Request.Context(), bookID, cursor, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// Reconcile 手动触发一次回写（幂等，可用于补数）
func (h *DiaryStatHandler) Reconcile(c *gin.Context) {
	result, err := h.statSvc.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseInt64Default(s string, def int64) int64 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func parsePageSize(s string) int {
	size := parseIntDefault(s, defaultPageSize)
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
