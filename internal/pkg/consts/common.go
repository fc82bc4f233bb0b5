package consts

import "time"

const (
	// ReconcileBatchSize 单批从脏集合弹出的日记数量上限
	ReconcileBatchSize = 1000

	// ReconcileBatchTimeout 单批回写的处理截止时间
	ReconcileBatchTimeout = 30 * time.Second

	// ViewLogExpiration 浏览去重记录的有效期
	ViewLogExpiration = 24 * time.Hour
)
