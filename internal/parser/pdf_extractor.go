package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-hire-go/internal/logger"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// PDFTextExtractor 基于 Eino PDF Parser 的简历文本提取器。
// 提取失败不是致命错误：申请流程会降级为仅凭文件名抽取技能并给固定分。
type PDFTextExtractor struct {
	parser *pdf.PDFParser
}

// NewPDFTextExtractor 初始化PDF文本提取器。
// 不按页分割，整份简历作为单个连续文本返回。
func NewPDFTextExtractor(ctx context.Context) (*PDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建Eino PDF解析器失败: %w", err)
	}
	return &PDFTextExtractor{parser: p}, nil
}

// ExtractText 从Reader中提取PDF全文。uri仅用于日志与解析器元数据。
func (e *PDFTextExtractor) ExtractText(ctx context.Context, reader io.Reader, uri string) (string, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]interface{}{
			"extraction_time": time.Now().Format(time.RFC3339),
		}),
	)
	if err != nil {
		return "", fmt.Errorf("解析PDF失败 (uri=%s): %w", uri, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("PDF解析无结果 (uri=%s)", uri)
	}

	// 正常配置下只有一个文档，防御性地合并全部内容
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.Content)
	}
	text := b.String()

	logger.Debug().
		Str("uri", uri).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(startTime)).
		Msg("PDF文本提取完成")
	return text, nil
}
