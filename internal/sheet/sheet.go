// Package sheet reads the item list out of a spreadsheet file.
//
// Only zip-based workbooks are accepted: the first four bytes must be the
// local file header signature before excelize is asked to parse anything.
// The active sheet is read, its first row is the header, and every following
// row is data.
package sheet

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
)

// ZipMagic is the signature every accepted spreadsheet must start with.
var ZipMagic = []byte{'P', 'K', 0x03, 0x04}

// Workbook is the parsed content of the active sheet.
type Workbook struct {
	Path    string
	Sheet   string
	rows    [][]string
	columns []string
}

// Open validates and parses the spreadsheet at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFound(path)
		}
		if stderrors.Is(err, fs.ErrPermission) {
			return nil, permissionDenied(path, err)
		}
		return nil, errors.NewIO("falha ao acessar o arquivo", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrPermission) {
			return nil, permissionDenied(path, err)
		}
		return nil, errors.NewIO("falha ao abrir o arquivo", err)
	}
	defer f.Close()

	if err := checkMagic(f); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewIO("falha ao ler o arquivo", err)
	}

	book, err := excelize.OpenReader(f)
	if err != nil {
		return nil, errors.NewFormat(fmt.Sprintf("não foi possível ler a planilha: %v", err), err)
	}
	defer book.Close()

	sheetName := book.GetSheetName(book.GetActiveSheetIndex())
	if sheetName == "" {
		list := book.GetSheetList()
		if len(list) == 0 {
			return nil, errors.NewFormat("a planilha não contém abas", nil)
		}
		sheetName = list[0]
	}

	rows, err := book.GetRows(sheetName)
	if err != nil {
		return nil, errors.NewFormat(fmt.Sprintf("não foi possível ler a aba %q: %v", sheetName, err), err)
	}

	wb := &Workbook{Path: path, Sheet: sheetName, rows: rows}
	wb.columns = detectColumns(rows)
	if len(wb.columns) == 0 {
		return nil, errors.NewFormat("nenhuma coluna com dados encontrada", nil)
	}
	return wb, nil
}

func permissionDenied(path string, err error) error {
	return errors.NewPermissionDenied(fmt.Sprintf("sem permissão para ler o arquivo: %s", path), path, err)
}

// checkMagic rejects anything that is not a zip container.
func checkMagic(r io.Reader) error {
	head := make([]byte, len(ZipMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !stderrors.Is(err, io.ErrUnexpectedEOF) && !stderrors.Is(err, io.EOF) {
		return errors.NewIO("falha ao ler o arquivo", err)
	}
	if n < len(ZipMagic) || !bytes.Equal(head, ZipMagic) {
		return errors.NewFormat("o arquivo selecionado não é um Excel válido", nil)
	}
	return nil
}

// detectColumns returns the letters of columns holding at least one
// non-blank cell below the header row.
func detectColumns(rows [][]string) []string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var columns []string
	for c := 0; c < width; c++ {
		for _, row := range rows[min(1, len(rows)):] {
			if c < len(row) && strings.TrimSpace(row[c]) != "" {
				name, err := excelize.ColumnNumberToName(c + 1)
				if err == nil {
					columns = append(columns, name)
				}
				break
			}
		}
	}
	return columns
}

// Columns returns the non-empty column letters in sheet order.
func (w *Workbook) Columns() []string {
	return append([]string(nil), w.columns...)
}

// HasColumn reports whether column holds data.
func (w *Workbook) HasColumn(column string) bool {
	column = strings.ToUpper(strings.TrimSpace(column))
	for _, c := range w.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Header returns the header cell of column, or "".
func (w *Workbook) Header(column string) string {
	idx, err := excelize.ColumnNameToNumber(strings.ToUpper(column))
	if err != nil || len(w.rows) == 0 || idx > len(w.rows[0]) {
		return ""
	}
	return strings.TrimSpace(w.rows[0][idx-1])
}

// Items reads the non-blank cells of column below the header, in row order.
// Each item's category comes from the same row of categoryColumn when that
// column holds data; otherwise it is empty.
func (w *Workbook) Items(column, categoryColumn string) ([]draw.Item, error) {
	column = strings.ToUpper(strings.TrimSpace(column))
	if !w.HasColumn(column) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("coluna %q não contém dados; disponíveis: %v", column, w.columns))
	}
	col, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("coluna inválida: %q", column))
	}

	catCol := 0
	if categoryColumn != "" && w.HasColumn(categoryColumn) {
		catCol, _ = excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(categoryColumn)))
	}

	var items []draw.Item
	for _, row := range w.rows[min(1, len(w.rows)):] {
		name := cell(row, col)
		if name == "" {
			continue
		}
		item := draw.Item{Name: name}
		if catCol > 0 {
			item.Category = cell(row, catCol)
		}
		items = append(items, item)
	}
	return items, nil
}

func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

// Categories returns the sorted distinct non-empty categories of items.
func Categories(items []draw.Item) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out
}
