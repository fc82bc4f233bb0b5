package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// IncrBy 原子增加计数
func IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return Rdb.IncrBy(ctx, key, delta).Result()
}

// DecrBy 原子减少计数
func DecrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return Rdb.DecrBy(ctx, key, delta).Result()
}

// MGetInt64 批量读取整型计数，缺失的键返回 0
func MGetInt64(ctx context.Context, keys []string) ([]int64, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := Rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	counts := make([]int64, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		counts[i] = n
	}
	return counts, nil
}

// AddToSetOnceWithTTL 向集合添加成员；集合首次创建时设置过期时间。
// 返回成员是否为新加入。
func AddToSetOnceWithTTL(ctx context.Context, key, member string, expiration time.Duration) (bool, error) {
	added, err := Rdb.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	if added == 0 {
		return false, nil
	}

	ttl, err := Rdb.TTL(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if ttl < 0 {
		return true, Rdb.Expire(ctx, key, expiration).Err()
	}
	return true, nil
}

// SAddMember 向集合添加成员
func SAddMember(ctx context.Context, key string, member string) error {
	return Rdb.SAdd(ctx, key, member).Err()
}

// SRemMembers 从集合移除成员
func SRemMembers(ctx context.Context, key string, members []string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return Rdb.SRem(ctx, key, args...).Err()
}

// SPopN 原子弹出集合中至多 n 个成员
func SPopN(ctx context.Context, key string, n int64) ([]string, error) {
	members, err := Rdb.SPopN(ctx, key, n).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return members, nil
}

// ZAdd 向有序集合添加一个成员，或者更新已存在成员的分数
func ZAdd(ctx context.Context, key string, score float64, member string) error {
	return Rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZIncrBy 原子调整有序集合成员分数
func ZIncrBy(ctx context.Context, key string, delta float64, member string) error {
	return Rdb.ZIncrBy(ctx, key, delta, member).Err()
}

// ZRem 移除有序集合成员
func ZRem(ctx context.Context, key string, member string) error {
	return Rdb.ZRem(ctx, key, member).Err()
}

// ZRevRange 获取有序集合中指定区间内的成员，分数从高到低排序
func ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	value, err := Rdb.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// DeleteKeys 删除多个键
func DeleteKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return Rdb.Del(ctx, keys...).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
