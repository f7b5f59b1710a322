// Package dsl 提供基于 CEL 的标签筛选表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tagkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("tag", cel.StringType),
		cel.Variable("confidence", cel.DoubleType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Selector 是编译后的标签筛选表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次后可对任意多个 (tag, confidence) 求值，求值线程安全。
//
// 表达式语法（CEL 标准语法）：
//   - 前缀：tag.startsWith("blue")
//   - 包含：tag.contains("hair")
//   - 数值：confidence > 0.8
//   - 组合：tag.endsWith("_eyes") && confidence >= 0.5
//
// 约定：表达式必须返回布尔值；true 保留该标签，false 丢弃。
// 筛选只能删减、不能新增标签。
type Selector struct {
	prg cel.Program
}

// Compile 编译筛选表达式。编译失败是配置错误（INVALID_INPUT），应在任何文件 I/O 之前暴露。
func Compile(expr string) (*Selector, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.NewDomainError(core.ModulePostprocess, core.ErrorCodeInvalidInput,
			fmt.Sprintf("postprocess: invalid selector expression: %v", issues.Err()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.NewDomainError(core.ModulePostprocess, core.ErrorCodeInvalidInput,
			fmt.Sprintf("postprocess: invalid selector expression: %v", err))
	}

	return &Selector{prg: prg}, nil
}

// Keep 对单个标签求值，返回是否保留。
func (s *Selector) Keep(tag string, confidence float64) (bool, error) {
	out, _, err := s.prg.Eval(map[string]any{
		"tag":        tag,
		"confidence": confidence,
	})
	if err != nil {
		return false, fmt.Errorf("eval selector: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("selector must return boolean, got %T", out.Value())
	}
	return result, nil
}
