package util

import "strconv"

// StrSliceToUint64Slice 将字符串 ID 列表转换为 uint64 列表
func StrSliceToUint64Slice(strs []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(strs))
	for _, s := range strs {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// StrToUint64 将字符串 ID 转换为 uint64
func StrToUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// Uint64ToStr 将 uint64 ID 转换为字符串
func Uint64ToStr(id uint64) string {
	return strconv.FormatUint(id, 10)
}
