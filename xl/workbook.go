package xl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type Workbook struct {
	AppName string
	Sheets  []*Sheet

	sheetMap map[string]*Sheet
}

func NewWorkbook() *Workbook {
	return &Workbook{
		sheetMap: map[string]*Sheet{},
	}
}

func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if _, exists := wb.sheetMap[name]; exists {
		return nil, fmt.Errorf("duplicate sheet name '%s'", name)
	}

	if err := ValidateSheetName(name); err != nil {
		return nil, err
	}

	sheet := &Sheet{
		workbook:      wb,
		Name:          name,
		Columns:       map[int]*Column{},
		nextRowNumber: 1,
	}

	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[name] = sheet

	return sheet, nil
}

// Sheet returns the sheet with the given name.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := wb.sheetMap[name]
	return s, ok
}

// Save writes the workbook as a zipped .xlsx package to out.
func (wb *Workbook) Save(out io.Writer) error {
	zs := NewZipStorage(out)
	if err := NewWriter(zs).Write(wb); err != nil {
		zs.Close()
		return err
	}
	return zs.Close()
}

func ValidateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return errors.New("empty sheet name is not allowed")
	} else if n > 31 {
		return errors.New("the sheet name is too long")
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return errors.New("the first or last character of the sheet name can not be a single quote")
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return errors.New("the sheet can not contain any of the characters :\\/?*[]")
	}
	return nil
}
