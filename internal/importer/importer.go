// Package importer は .xlsx / .csv から用語を一括登録します
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
)

// TermCreator は用語の登録先 (service.TermService が満たす)
type TermCreator interface {
	CreateTerm(ctx context.Context, req *model.TermRequest) (*model.Term, error)
}

type Options struct {
	// Sheet は .xlsx の読み込み対象シート。空なら先頭シート
	Sheet string
	// DefaultDomain は Domain 列が空の行に使う分野
	DefaultDomain model.TermDomain
}

// Result は取り込み結果
type Result struct {
	Processed int
	Created   int
	Skipped   int // 既存の (en, ru) と重複
	Errors    []string
}

// columns は En / Ru / Domain 列の位置。-1 は列なし
type columns struct {
	en, ru, domain int
}

var positional = columns{en: 0, ru: 1, domain: 2}

// Import は拡張子で形式を判定してファイルを取り込みます
func Import(ctx context.Context, creator TermCreator, path string, opts Options) (*Result, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ImportCSV(ctx, creator, f, opts)
	case ".xlsx", ".xlsm":
		return importExcel(ctx, creator, path, opts)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", ext)
	}
}

// ImportCSV は CSV を取り込みます。1行目が En,Ru,Domain のヘッダーならその並びに従う
func ImportCSV(ctx context.Context, creator TermCreator, r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return importRows(ctx, creator, rows, opts)
}

func importExcel(ctx context.Context, creator TermCreator, path string, opts Options) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}
	return importRows(ctx, creator, rows, opts)
}

func importRows(ctx context.Context, creator TermCreator, rows [][]string, opts Options) (*Result, error) {
	logger := middleware.GetLogger(ctx)
	result := &Result{Errors: make([]string, 0)}
	if len(rows) == 0 {
		return result, nil
	}

	cols, start := positional, 0
	if header, ok := parseHeader(rows[0]); ok {
		cols, start = header, 1
	}

	for i := start; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row := rows[i]
		rowNum := i + 1
		if isBlank(row) {
			continue
		}
		result.Processed++

		req := &model.TermRequest{
			En:     cell(row, cols.en),
			Ru:     cell(row, cols.ru),
			Domain: model.TermDomain(cell(row, cols.domain)),
		}
		if req.Domain == "" {
			req.Domain = opts.DefaultDomain
		}

		_, err := creator.CreateTerm(ctx, req)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, model.ErrConflict):
			result.Skipped++
		case errors.Is(err, model.ErrInvalidInput):
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		default:
			return result, fmt.Errorf("row %d: %w", rowNum, err)
		}
	}

	logger.Info("Terms imported",
		"processed", result.Processed,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// parseHeader は En と Ru の列名を含む行をヘッダーとみなします
func parseHeader(row []string) (columns, bool) {
	cols := columns{en: -1, ru: -1, domain: -1}
	for i, v := range row {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "en", "english":
			cols.en = i
		case "ru", "russian":
			cols.ru = i
		case "domain":
			cols.domain = i
		}
	}
	if cols.en < 0 || cols.ru < 0 {
		return positional, false
	}
	return cols, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
