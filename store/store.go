// Package store 提供 core.Store 的基础设施实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var cache core.Store = store.NewMemoryStore()
package store
