package analysis

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"CodeTracer/internal/lang"
	"CodeTracer/internal/model"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 扫描时跳过的目录 (隐藏目录另行处理)
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
}

// Scanner 批量分析目录下的源码文件
type Scanner struct {
	Tracer      *Tracer
	Limits      Limits
	Concurrency int
	Languages   []string    // 为空时接受所有已知语言
	Progress    io.Writer   // nil 时不显示进度条
	Logger      *zap.Logger // nil 时不输出日志
}

func NewScanner(tracer *Tracer) *Scanner {
	if tracer == nil {
		tracer = defaultTracer
	}
	return &Scanner{
		Tracer:      tracer,
		Limits:      DefaultLimits,
		Concurrency: 4,
		Logger:      zap.NewNop(),
	}
}

type candidate struct {
	Path     string
	Language string
}

// Scan 遍历 root 并并发分析每个文件。
// 单个文件的读取或校验失败记录在 FileResult.Err 中，不会中断扫描。
func (s *Scanner) Scan(ctx context.Context, root string) ([]model.FileResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := s.findCandidates(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("scan candidates", zap.String("root", root), zap.Int("files", len(files)))

	bar := s.newBar(len(files))
	results := make([]model.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, cand := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.analyzeFile(cand)
			if results[i].Err != nil {
				logger.Warn("skip file", zap.String("path", cand.Path), zap.Error(results[i].Err))
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Path < results[b].Path })
	return results, nil
}

func (s *Scanner) analyzeFile(cand candidate) model.FileResult {
	res := model.FileResult{Path: cand.Path, Language: cand.Language}

	data, err := os.ReadFile(cand.Path)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	code := string(data)
	res.Source = code

	if err := Validate(code, s.Limits); err != nil {
		res.Err = fmt.Errorf("%s: %w", filepath.Base(cand.Path), err)
		res.Error = res.Err.Error()
		return res
	}
	res.Trace = s.Tracer.Analyze(code)
	return res
}

func (s *Scanner) findCandidates(root string) ([]candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		l, ok := lang.ForPath(root)
		if !ok {
			return nil, fmt.Errorf("%w: %s", lang.ErrUnknownLanguage, root)
		}
		return []candidate{{Path: root, Language: l.ID}}, nil
	}

	var out []candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		l, ok := lang.ForPath(path)
		if !ok || !s.accepts(l.ID) {
			return nil
		}
		out = append(out, candidate{Path: path, Language: l.ID})
		return nil
	})
	return out, err
}

func (s *Scanner) accepts(id string) bool {
	if len(s.Languages) == 0 {
		return true
	}
	for _, l := range s.Languages {
		if strings.EqualFold(l, id) {
			return true
		}
	}
	return false
}

// newBar 未设置 Progress 时返回 nil
func (s *Scanner) newBar(total int) *progressbar.ProgressBar {
	if s.Progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.Progress),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
