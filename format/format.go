// Package format 实现输出文件名模板引擎。
//
// 模板是字面文本与方括号 token 的交替序列，token 集合固定：
//
//	[name]             源文件名（不含扩展名）
//	[extension]        源扩展名（不带点）
//	[output_extension] 输出扩展名（不带点）
//	[hash:ALGO]        源文件字节的十六进制摘要，ALGO ∈ {md5, sha1, sha256, sha512}
//	[phash]            解码后图片的 16 位十六进制感知哈希（差值哈希，适合按内容去重命名）
//
// 未知 token 与不支持的摘要算法都是配置错误（INVALID_INPUT），立即返回，
// 绝不原样透传。解析结果必须是单段相对文件名，不允许路径分隔符与 `..`。
package format

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rushteam/tagkit/core"
)

// Context 是单个文件的模板解析上下文，解析完输出路径后即丢弃。
type Context struct {
	SourcePath      string // 源文件路径
	OutputExtension string // 输出扩展名（不带点），如 "txt"
}

// Engine 是模板引擎。文件摘要按 (路径, 算法) 缓存，引擎生命周期内有效，
// 同一文件反复解析不同模板时不重复读盘。
type Engine struct {
	// Codec 仅 [phash] token 需要：用于解码源图片。nil 时使用 [phash] 报 NOT_SUPPORTED。
	Codec core.Codec

	mu      sync.Mutex
	digests map[string]string // "path\x00algo" -> hex digest
}

// NewEngine 创建一个模板引擎。codec 可为 nil（此时 [phash] 不可用）。
func NewEngine(codec core.Codec) *Engine {
	return &Engine{
		Codec:   codec,
		digests: make(map[string]string),
	}
}

// Validate 只做 token 语法检查，不读任何文件。
// 批处理在进入文件循环前用它实现 fail-fast。
func (e *Engine) Validate(template string) error {
	_, err := tokenize(template)
	return err
}

// Resolve 把模板解析成具体的相对文件名。
func (e *Engine) Resolve(template string, ctx Context) (string, error) {
	tokens, err := tokenize(template)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, t := range tokens {
		if t.literal {
			b.WriteString(t.text)
			continue
		}
		val, err := e.expand(t.text, ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(val)
	}

	name := b.String()
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", core.NewDomainError(core.ModuleFormat, core.ErrorCodeInvalidInput,
			fmt.Sprintf("format: result %q must be a plain relative filename", name))
	}
	return name, nil
}

// token 是模板的最小单元：字面文本或方括号内的 token 名。
type token struct {
	literal bool
	text    string
}

// tokenize 把模板切成字面文本与 token 的序列，并校验每个 token 是否合法。
// '[' 必须有配对的 ']'；token 名区分大小写。
func tokenize(template string) ([]token, error) {
	var tokens []token
	rest := template
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			tokens = append(tokens, token{literal: true, text: rest})
			break
		}
		if open > 0 {
			tokens = append(tokens, token{literal: true, text: rest[:open]})
		}
		closing := strings.IndexByte(rest[open:], ']')
		if closing < 0 {
			return nil, core.NewDomainError(core.ModuleFormat, core.ErrorCodeInvalidInput,
				fmt.Sprintf("format: unclosed token in template %q", template))
		}
		name := rest[open+1 : open+closing]
		if err := checkToken(name); err != nil {
			return nil, err
		}
		tokens = append(tokens, token{text: name})
		rest = rest[open+closing+1:]
	}
	return tokens, nil
}

// checkToken 校验 token 名。最具体的形式优先：带冒号的先按 hash:ALGO 整体检查。
func checkToken(name string) error {
	if algo, ok := strings.CutPrefix(name, "hash:"); ok {
		if _, ok := digestAlgorithms[algo]; !ok {
			return core.NewDomainError(core.ModuleFormat, core.ErrorCodeInvalidInput,
				fmt.Sprintf("format: unsupported hash algorithm %q (supported: %s)",
					algo, strings.Join(supportedAlgorithms(), ", ")))
		}
		return nil
	}
	switch name {
	case "name", "extension", "output_extension", "phash":
		return nil
	}
	return core.NewDomainError(core.ModuleFormat, core.ErrorCodeInvalidInput,
		fmt.Sprintf("format: unknown token [%s]", name))
}

// expand 求单个 token 的值。token 名已由 tokenize 校验。
func (e *Engine) expand(name string, ctx Context) (string, error) {
	switch {
	case name == "name":
		base := filepath.Base(ctx.SourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	case name == "extension":
		return strings.TrimPrefix(filepath.Ext(ctx.SourcePath), "."), nil
	case name == "output_extension":
		return ctx.OutputExtension, nil
	case name == "phash":
		return e.perceptualHash(ctx.SourcePath)
	default:
		algo, _ := strings.CutPrefix(name, "hash:")
		return e.digest(ctx.SourcePath, algo)
	}
}
