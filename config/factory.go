package config

import (
	"fmt"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/interrogator"
	"github.com/rushteam/tagkit/store"
)

// BuildRegistry 按 run-spec 构建 interrogator 注册表（不执行 Refresh）。
func (s *RunSpec) BuildRegistry(opts ...interrogator.Option) *interrogator.Registry {
	all := make([]interrogator.Option, 0, len(s.Models)+len(opts)+1)
	if s.ProjectsPath != "" {
		all = append(all, interrogator.WithProjectsRoot(s.ProjectsPath))
	}
	for _, m := range s.Models {
		all = append(all, interrogator.WithVectorModel(m.Name, m.Model, m.Labels))
	}
	all = append(all, opts...)
	return interrogator.NewRegistry(all...)
}

// BuildCache 按 run-spec 构建结果缓存后端。
// 未配置 cache 时返回 (nil, nil)；未知后端类型是 NOT_SUPPORTED。
func (s *RunSpec) BuildCache() (core.Store, error) {
	c := s.Cache
	if c == nil {
		return nil, nil
	}
	switch c.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(c.Addr, c.DB)
	case "badger":
		return store.NewBadgerStore(c.Path)
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			fmt.Sprintf("store: unknown cache backend %q (supported: memory, redis, badger)", c.Type))
	}
}
