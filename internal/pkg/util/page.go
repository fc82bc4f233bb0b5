package util

// EndCursor 表示没有下一页时返回的游标哨兵值
const EndCursor int64 = -1

// Page 单游标分页结果
type Page[T any] struct {
	Data       []T
	NextCursor int64
	HasNext    bool
}

// DualPage 双游标分页结果，附带边界行的排序键值
type DualPage[T any] struct {
	Data          []T
	NextCursor    int64
	NextSubCursor float64
	HasNext       bool
}

// ToPage 将按排序键取出的 pageSize+1 行切成一页。
// 超出 pageSize 的行被截断，游标取截断后最后一行的 ID。
func ToPage[T any](data []T, pageSize int, idOf func(T) int64) Page[T] {
	if len(data) <= pageSize {
		return Page[T]{Data: data, NextCursor: EndCursor, HasNext: false}
	}

	trimmed := data[:pageSize]
	return Page[T]{
		Data:       trimmed,
		NextCursor: idOf(trimmed[pageSize-1]),
		HasNext:    true,
	}
}

// ToDualPage 与 ToPage 相同的截断逻辑，同时从边界行提取次级排序键。
// 排序键可能重复，下一次查询需用 (subKey, id) 复合条件续页。
func ToDualPage[T any](data []T, pageSize int, idOf func(T) int64, subOf func(T) float64) DualPage[T] {
	if len(data) <= pageSize {
		return DualPage[T]{Data: data, NextCursor: EndCursor, HasNext: false}
	}

	trimmed := data[:pageSize]
	last := trimmed[pageSize-1]
	return DualPage[T]{
		Data:          trimmed,
		NextCursor:    idOf(last),
		NextSubCursor: subOf(last),
		HasNext:       true,
	}
}
