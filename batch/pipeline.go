// Package batch 实现批处理管线：发现输入图片 -> 推理 -> 后处理 ->
// 模板解析输出路径 -> 冲突处理 -> 落盘（文本 + 可选 JSON 边车）。
//
// 执行模型是严格串行的：一次只处理一个文件，同一时刻内存里只有
// 一张解码图与一次前向推理；写盘顺序因此确定，冲突处理容易推理。
// 单文件失败（无法识别/损坏的图片、推理失败）记日志后跳过，不中断批次；
// 配置错误（未知模板 token、输入不是目录等）在进入文件循环前立即返回。
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/format"
	"github.com/rushteam/tagkit/postprocess"
	"github.com/rushteam/tagkit/pkg/utils"
)

// Pipeline 把一个已绑定的 interrogator 和图片编解码器组合成批处理器。
type Pipeline struct {
	interrogator core.Interrogator
	codec        core.Codec

	cache    core.Store // 可选的结果缓存，nil 表示关闭
	cacheTTL int        // 缓存过期秒数，0 表示不过期
	logger   *slog.Logger
}

// Option 配置 Pipeline。
type Option func(*Pipeline)

// WithCache 挂一个结果缓存：原始推理结果按文件内容哈希缓存，
// 命中时跳过前向推理，但后处理与写盘照常执行。
func WithCache(s core.Store, ttlSeconds int) Option {
	return func(p *Pipeline) {
		p.cache = s
		p.cacheTTL = ttlSeconds
	}
}

// WithLogger 指定日志器，nil 时用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New 创建一个批处理管线。
func New(in core.Interrogator, c core.Codec, opts ...Option) *Pipeline {
	p := &Pipeline{interrogator: in, codec: c}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Summary 是一次批处理的完成指标。只是参考值：跳过/失败不是异常，
// 批次不管个别文件结局如何都会跑到最后。
type Summary struct {
	Found     int // glob 匹配且扩展名受支持的文件数
	Processed int // 成功写出结果的文件数
	Skipped   int // 因 ignore 冲突策略而跳过的文件数
	Failed    int // 解码/推理失败而跳过的文件数
}

// Run 执行一次批处理。配置错误立即返回且不产生任何文件副作用；
// 文件级错误不会从循环里逃逸。
func (p *Pipeline) Run(ctx context.Context, job core.BatchJob, cfg core.PostprocessConfig) (*Summary, error) {
	glob := strings.TrimSpace(job.InputGlob)
	if glob == "" {
		return nil, core.NewDomainError(core.ModuleBatch, core.ErrorCodeInvalidInput,
			"batch: input glob is empty")
	}

	template := strings.TrimSpace(job.FilenameTemplate)
	if template == "" {
		template = core.DefaultFilenameTemplate
	}
	engine := format.NewEngine(p.codec)
	if err := engine.Validate(template); err != nil {
		return nil, err
	}
	if err := postprocess.Validate(cfg); err != nil {
		return nil, err
	}

	// 不以通配符结尾时自动补一级，让裸目录路径也能枚举内容。
	glob = filepath.ToSlash(glob)
	if !strings.HasSuffix(glob, "*") {
		if !strings.HasSuffix(glob, "/") {
			glob += "/"
		}
		glob += "*"
	}

	// glob 的字面（无通配符）根目录：? 视作通配符处理。
	root := strings.Split(strings.ReplaceAll(glob, "?", "*"), "/*")[0]
	rootNative := filepath.FromSlash(root)
	if info, err := os.Stat(rootNative); err != nil || !info.IsDir() {
		return nil, core.NewDomainError(core.ModuleBatch, core.ErrorCodeInvalidInput,
			"batch: input path is not a directory")
	}

	files, err := p.expand(glob, job.Recursive)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Found: len(files)}
	p.logger.Info("found images", "count", len(files), "glob", glob)

	for _, path := range files {
		// 文件之间是唯一安全的取消点：单文件推理视作原子单元。
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := p.processOne(ctx, path, rootNative, job, cfg, engine, template, summary); err != nil {
			return summary, err
		}
	}

	p.logger.Info("batch done",
		"found", summary.Found, "processed", summary.Processed,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// expand 展开 glob 并按扩展名预过滤。`**` 只在 recursive 模式下生效。
func (p *Pipeline) expand(glob string, recursive bool) ([]string, error) {
	pattern := glob
	if !recursive {
		pattern = strings.ReplaceAll(pattern, "**", "*")
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleBatch, core.ErrorCodeInvalidInput,
			fmt.Sprintf("batch: bad input glob %q: %v", glob, err))
	}

	supported := make(map[string]bool)
	for _, ext := range p.codec.Extensions() {
		supported[ext] = true
	}

	var files []string
	for _, m := range matches {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(m), "."))
		if !supported[ext] {
			continue
		}
		if info, err := os.Stat(m); err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// processOne 处理单个文件。返回非 nil 仅限致命错误（目录创建/写盘/模板解析），
// 文件级的解码/推理失败在此处消化并计入 summary。
func (p *Pipeline) processOne(
	ctx context.Context,
	path, root string,
	job core.BatchJob,
	cfg core.PostprocessConfig,
	engine *format.Engine,
	template string,
	summary *Summary,
) error {
	// 输出目录 = 输出根（默认 glob 根）下镜像源文件的相对位置。
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	outRoot := job.OutputDir
	if outRoot == "" {
		outRoot = root
	}
	outDir := filepath.Join(outRoot, filepath.Dir(rel))
	if err := os.MkdirAll(outDir, 0o777); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	name, err := engine.Resolve(template, format.Context{SourcePath: path, OutputExtension: "txt"})
	if err != nil {
		return err
	}
	outPath := filepath.Join(outDir, name)

	existing, hasExisting := "", false
	if data, err := os.ReadFile(outPath); err == nil {
		existing, hasExisting = string(data), true
	}

	// ignore 是短路优化：现有结果在场时整个文件不碰，推理也不做。
	if hasExisting && job.OnConflict == core.ConflictIgnore {
		p.logger.Info("skipping", "path", path, "reason", "output exists")
		summary.Skipped++
		return nil
	}

	ratings, tags, err := p.interrogateFile(ctx, path)
	if err != nil {
		p.logger.Warn("skipping", "path", path, "error", err)
		summary.Failed++
		return nil
	}

	processed, err := postprocess.Apply(tags, cfg)
	if err != nil {
		return err
	}
	p.logger.Info("tagged", "path", path, "kept", len(processed), "raw", len(tags))

	plain := utils.JoinTags(processed)
	text := plain
	if hasExisting {
		switch job.OnConflict {
		case core.ConflictCopy:
			text = plain
		case core.ConflictPrepend:
			text = plain + " " + existing
		default:
			text = existing + " " + plain
		}
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	// JSON 边车与冲突策略无关：开启即覆盖写，内容是过滤前的原始置信度。
	if job.SaveJSON {
		payload, err := json.Marshal([2]map[string]float64{ratings, tags})
		if err != nil {
			return fmt.Errorf("encode json sidecar: %w", err)
		}
		jsonPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".json"
		if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
			return fmt.Errorf("write json sidecar: %w", err)
		}
	}

	summary.Processed++
	return nil
}

// interrogateFile 解码并推理单个文件，挂了缓存时优先查缓存。
// 缓存 key 用文件内容的 sha256，同一张图换名/换目录也能命中。
func (p *Pipeline) interrogateFile(ctx context.Context, path string) (map[string]float64, map[string]float64, error) {
	var key string
	if p.cache != nil {
		if data, err := os.ReadFile(path); err == nil {
			sum := sha256.Sum256(data)
			key = fmt.Sprintf("tagkit:result:%s:%s", p.interrogator.Name(), hex.EncodeToString(sum[:]))
			if cached, err := p.cache.Get(ctx, key); err == nil {
				var pair [2]map[string]float64
				if json.Unmarshal(cached, &pair) == nil {
					p.logger.Debug("cache hit", "path", path)
					return pair[0], pair[1], nil
				}
			}
		}
	}

	img, err := p.codec.Decode(path)
	if err != nil {
		return nil, nil, err
	}
	ratings, tags, err := p.interrogator.Interrogate(ctx, img)
	if err != nil {
		return nil, nil, err
	}

	if p.cache != nil && key != "" {
		if payload, err := json.Marshal([2]map[string]float64{ratings, tags}); err == nil {
			if err := p.cache.Set(ctx, key, payload, p.cacheTTL); err != nil {
				p.logger.Warn("cache set failed", "path", path, "error", err)
			}
		}
	}
	return ratings, tags, nil
}

// One 处理单张图片（交互/CLI 的 single process 路径）：
// 解码、推理、后处理，返回原始映射与最终标签列表，不落盘。
func (p *Pipeline) One(ctx context.Context, path string, cfg core.PostprocessConfig) (ratings, tags map[string]float64, processed []string, err error) {
	if err := postprocess.Validate(cfg); err != nil {
		return nil, nil, nil, err
	}
	ratings, tags, err = p.interrogateFile(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}
	processed, err = postprocess.Apply(tags, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return ratings, tags, processed, nil
}
