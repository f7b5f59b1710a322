package interrogator

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/tagkit/core"
)

// Registry 持有当前发现的 interrogator 集合。
//
// 并发模型（与批处理的串行约定配套）：
//   - Refresh 整体重建并原子替换整个表（只换不改），被换下的实例统一 Close
//   - Refresh 与推理互斥：推理持读锁，替换持写锁
//   - 并发的 Refresh 通过 singleflight 合并成一次
type Registry struct {
	projectsRoot string
	builtins     []builtinVector
	logger       *slog.Logger

	mu    sync.RWMutex
	table map[string]core.Interrogator

	sf singleflight.Group
}

// builtinVector 是一条内建的向量分类器登记信息（名字 + 两个文件路径）。
type builtinVector struct {
	name      string
	modelPath string
	labelPath string
}

// Option 配置 Registry。
type Option func(*Registry)

// WithProjectsRoot 指定项目分类器的根目录：其直接子目录是候选项目。
func WithProjectsRoot(dir string) Option {
	return func(r *Registry) { r.projectsRoot = dir }
}

// WithVectorModel 登记一个内建向量分类器，每次 Refresh 都会重建其实例。
func WithVectorModel(name, modelPath, labelPath string) Option {
	return func(r *Registry) {
		r.builtins = append(r.builtins, builtinVector{name: name, modelPath: modelPath, labelPath: labelPath})
	}
}

// WithLogger 指定日志器，nil 时用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry 创建一个空表的注册表。调用方需要先 Refresh 一次才能发现实例。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{table: make(map[string]core.Interrogator)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Refresh 重新执行一次发现并整体替换当前表，返回发现的名字（排序后）。
//
// 发现规则：
//   - 每个内建向量分类器重建一个新实例
//   - 扫描项目根目录的直接子目录，只接受含 project.json 的目录，
//     目录名即公开标识；缺 manifest 的目录静默跳过（不报错、不入表）
//   - 替换是整体的，从不合并：上一轮存在而这一轮消失的名字直接消失
func (r *Registry) Refresh() ([]string, error) {
	_, err, _ := r.sf.Do("refresh", func() (any, error) {
		next := make(map[string]core.Interrogator, len(r.builtins))
		for _, b := range r.builtins {
			next[b.name] = NewVectorInterrogator(b.name, b.modelPath, b.labelPath)
		}

		if r.projectsRoot != "" {
			if err := os.MkdirAll(r.projectsRoot, 0o777); err != nil {
				return nil, fmt.Errorf("create projects root: %w", err)
			}
			entries, err := os.ReadDir(r.projectsRoot)
			if err != nil {
				return nil, fmt.Errorf("scan projects root: %w", err)
			}
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				dir := filepath.Join(r.projectsRoot, entry.Name())
				if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
					continue
				}
				next[entry.Name()] = NewProjectInterrogator(dir)
			}
		}

		r.mu.Lock()
		prev := r.table
		r.table = next
		r.mu.Unlock()

		for name, in := range prev {
			if err := in.Close(); err != nil {
				r.logger.Warn("close replaced interrogator", "name", name, "error", err)
			}
		}
		r.logger.Debug("interrogators refreshed", "count", len(next))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return r.Names(), nil
}

// Names 返回当前表内的名字（排序后）。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get 按名字取实例，不在当前表内时返回 NOT_FOUND（由调用方展示，不上抛到顶层）。
func (r *Registry) Get(name string) (core.Interrogator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.table[name]
	if !ok {
		return nil, core.NewDomainError(core.ModuleInterrogator, core.ErrorCodeNotFound,
			fmt.Sprintf("interrogator: %q is not a valid interrogator", name))
	}
	return in, nil
}

// Interrogate 按名字推理一张图。持读锁覆盖整个推理过程，
// 保证 Refresh 不会在推理进行中替换/关闭实例。
func (r *Registry) Interrogate(ctx context.Context, name string, img image.Image) (map[string]float64, map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.table[name]
	if !ok {
		return nil, nil, core.NewDomainError(core.ModuleInterrogator, core.ErrorCodeNotFound,
			fmt.Sprintf("interrogator: %q is not a valid interrogator", name))
	}
	return in.Interrogate(ctx, img)
}

// Close 关闭表内全部实例并清空表。
func (r *Registry) Close() error {
	r.mu.Lock()
	prev := r.table
	r.table = make(map[string]core.Interrogator)
	r.mu.Unlock()

	var firstErr error
	for _, in := range prev {
		if err := in.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
