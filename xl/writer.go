package xl

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"github.com/adnsv/srw/xml"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

type Writer struct {
	// Created is stamped into docProps/core.xml, defaults to time.Now.
	Created time.Time

	out            Storage
	lastGlobalId   int
	lastWorkbookId int

	GlobalRels          map[string]RelInfo // maps id to absolute path
	WorkbookRels        map[string]RelInfo // maps id to absolute paths
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type

	sharedStrings   []string
	sharedStringMap map[string]int // 0-based index into sharedStrings

	styles *styleTable
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func NewWriter(s Storage) *Writer {
	w := &Writer{
		out:                 s,
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},

		sharedStringMap: map[string]int{},

		styles: newStyleTable(),
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

func (w *Writer) SharedString(s string) int {
	if i, ok := w.sharedStringMap[s]; ok {
		return i
	}
	i := len(w.sharedStrings)
	w.sharedStrings = append(w.sharedStrings, s)
	w.sharedStringMap[s] = i
	return i
}

func (w *Writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *Writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}

func (w *Writer) Write(wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	// styles must be registered before the sheets reference them by index
	for _, sheet := range wb.Sheets {
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if _, err := w.styles.index(cell.style); err != nil {
					return fmt.Errorf("cell %s!%s: %w", sheet.Name, cell.coord, err)
				}
			}
		}
	}

	steps := []func() error{
		func() error { return w.writeWorkbook(wb) },
		w.writeStyles,
		w.writeCoreProperties,
		func() error { return w.writeExtendedProperties(wb.AppName) },
		w.writeSharedStrings,
		func() error { return w.writeRels("/xl/_rels/workbook.xml.rels", w.WorkbookRels) },
		func() error { return w.writeRels("/_rels/.rels", w.GlobalRels) },
		w.writeContentTypes,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCoreProperties() error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	created := w.Created
	if created.IsZero() {
		created = time.Now()
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(created.UTC().Format(time.RFC3339))
	x.CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeExtendedProperties(appname string) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if appname != "" {
		x.OTag("+Application").String(appname).CTag()
	}

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.out.WriteBlob("[Content_Types].xml", bb.Bytes())
}

func (w *Writer) writeStyles() error {
	_, rid := w.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	t := w.styles

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	x.OTag("+fonts").Attr("count", len(t.fonts))
	for _, f := range t.fonts {
		x.OTag("+font")
		if f.Bold {
			x.OTag("+b").CTag()
		}
		if f.Italic {
			x.OTag("+i").CTag()
		}
		if f.Strikethrough {
			x.OTag("+strike").CTag()
		}
		if f.Underline != UnderlineNone {
			x.OTag("+u").Attr("val", string(f.Underline)).CTag()
		}
		x.OTag("+sz").Attr("val", f.size()).CTag()
		if f.Color != "" {
			x.OTag("+color").Attr("rgb", "FF"+f.Color).CTag()
		}
		x.OTag("+name").Attr("val", "Calibri").CTag()
		x.OTag("+family").Attr("val", 2).CTag()
		x.CTag() // font
	}
	x.CTag() // fonts

	x.OTag("+fills").Attr("count", len(t.fills))
	for i, f := range t.fills {
		x.OTag("+fill")
		switch {
		case i == 0:
			x.OTag("+patternFill").Attr("patternType", "none").CTag()
		case i == 1:
			x.OTag("+patternFill").Attr("patternType", "gray125").CTag()
		default:
			x.OTag("+patternFill").Attr("patternType", "solid")
			x.OTag("+fgColor").Attr("rgb", "FF"+f.Color).CTag()
			x.OTag("+bgColor").Attr("indexed", 64).CTag()
			x.CTag() // patternFill
		}
		x.CTag() // fill
	}
	x.CTag() // fills

	x.OTag("+borders").Attr("count", len(t.borders))
	for _, b := range t.borders {
		x.OTag("+border")
		for _, edge := range []struct {
			tag   string
			style BorderStyle
		}{{"left", b.Left}, {"right", b.Right}, {"top", b.Top}, {"bottom", b.Bottom}} {
			x.OTag(xml.NameString("+" + edge.tag))
			if edge.style != BorderNone {
				x.Attr("style", string(edge.style))
				x.OTag("+color").Attr("indexed", 64).CTag()
			}
			x.CTag()
		}
		x.OTag("+diagonal").CTag()
		x.CTag() // border
	}
	x.CTag() // borders

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(t.xfs))
	for i, xf := range t.xfs {
		x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", xf.fontID).Attr("fillId", xf.fillID).Attr("borderId", xf.borderID).Attr("xfId", 0)
		if i > 0 {
			if xf.fontID > 0 {
				x.Attr("applyFont", 1)
			}
			if xf.fillID > 0 {
				x.Attr("applyFill", 1)
			}
			if xf.borderID > 0 {
				x.Attr("applyBorder", 1)
			}
		}
		x.CTag()
	}
	x.CTag() // cellXfs

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag() // styleSheet

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeWorkbook(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+sheets")
	for i, sheet := range wb.Sheets {
		_, sheet_rid := w.nextWorkbookID()
		{
			x.OTag("+sheet")
			x.Attr("name", sheet.Name)
			x.Attr("sheetId", i+1)
			x.Attr("r:id", sheet_rid)
			x.CTag()
		}

		err := w.writeSheet(sheet, i+1, sheet_rid)
		if err != nil {
			return err
		}
	}
	x.CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeSheet(sh *Sheet, n int, rid string) error {
	// sheet names may contain characters that are awkward in part names
	relpath := fmt.Sprintf("worksheets/sheet%d.xml", n)
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	if len(sh.Columns) > 0 {
		x.OTag("+cols")
		enumerate(sh.Columns, func(n int, v *Column) error {
			x.OTag("+col").Attr("min", n).Attr("max", n)
			if v.Width > 0 {
				x.Attr("width", v.Width).Attr("customWidth", 1)
			}
			x.CTag()
			return nil
		})
		x.CTag()
	}

	x.OTag("+sheetData")
	for _, row := range sh.Rows {
		x.OTag("+row").Attr("r", row.rowNumber)
		if row.Height > 0 {
			x.Attr("ht", row.Height).Attr("customHeight", 1)
		}

		for _, cell := range row.Cells {
			x.OTag("+c").Attr("r", cell.coord)

			if !cell.style.IsDefault() {
				s, err := w.styles.index(cell.style)
				if err != nil {
					return err
				}
				x.Attr("s", s)
			}

			switch cell.typ {
			case CellTypeBool:
				x.Attr("t", "b")
				x.OTag("v").Write(cell.v).CTag()
			case CellTypeNumber:
				x.Attr("t", "n")
				x.OTag("v").Write(cell.v).CTag()
			case CellTypeSharedString:
				x.Attr("t", "s")
				x.OTag("v").Write(w.SharedString(cell.v)).CTag()
			}
			x.CTag() // c
		}

		x.CTag() // row
	}
	x.CTag() // sheetData

	x.CTag() // worksheet

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeSharedStrings() error {
	if len(w.sharedStrings) == 0 {
		return nil
	}

	_, rid := w.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", len(w.sharedStrings))
	x.Attr("uniqueCount", len(w.sharedStrings))

	for _, s := range w.sharedStrings {
		x.OTag("+si")
		x.OTag("t").Write(s).CTag()
		x.CTag()
	}

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeRels(path string, rels map[string]RelInfo) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	err := enumerate(rels, func(rid string, info RelInfo) error {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()

		return nil
	})
	if err != nil {
		return err
	}
	x.CTag()

	return w.out.WriteBlob(path, bb.Bytes())
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
