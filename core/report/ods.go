package report

import (
	"archive/zip"
	"bytes"
	"io"
	"os"

	"github.com/FocuswithJustin/idml2docbook/core/encoding"
	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/text"
)

const odsMimetype = "application/vnd.oasis.opendocument.spreadsheet"

const odsManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
  <manifest:file-entry manifest:full-path="/" manifest:media-type="` + odsMimetype + `"/>
  <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>`

// ODSPath returns the spreadsheet written for input.
func ODSPath(input string) string {
	root, _ := text.SplitExt(input)
	return root + ".ods"
}

// WriteODS writes sections as a spreadsheet, one sheet per non-empty
// section.
func WriteODS(w io.Writer, sections []Section) error {
	zw := zip.NewWriter(w)

	// mimetype must be the first entry, uncompressed
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mw, odsMimetype); err != nil {
		return err
	}

	manifest, err := zw.Create("META-INF/manifest.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(manifest, odsManifest); err != nil {
		return err
	}

	content, err := zw.Create("content.xml")
	if err != nil {
		return err
	}
	if _, err := content.Write(odsContent(sections)); err != nil {
		return err
	}
	return zw.Close()
}

func odsContent(sections []Section) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
<office:body>
<office:spreadsheet>
`)
	for _, s := range sections {
		if len(s.Rules) == 0 {
			continue
		}
		rows := make([]map[string]string, len(s.Rules))
		for i, r := range s.Rules {
			rows[i] = s.Row(r)
		}
		cols := Columns(rows)

		b.WriteString(`<table:table table:name=` + encoding.QuoteXMLAttr(s.SheetName()) + ">\n")
		b.WriteString("<table:table-row>")
		for _, c := range cols {
			writeCell(&b, c)
		}
		b.WriteString("</table:table-row>\n")
		for _, row := range rows {
			b.WriteString("<table:table-row>")
			for _, c := range cols {
				writeCell(&b, row[c])
			}
			b.WriteString("</table:table-row>\n")
		}
		b.WriteString("</table:table>\n")
	}
	b.WriteString(`</office:spreadsheet>
</office:body>
</office:document-content>
`)
	return b.Bytes()
}

func writeCell(b *bytes.Buffer, v string) {
	if v == "" {
		b.WriteString("<table:table-cell/>")
		return
	}
	b.WriteString(`<table:table-cell office:value-type="string"><text:p>`)
	b.WriteString(encoding.EscapeXMLText(v))
	b.WriteString("</text:p></table:table-cell>")
}

// SaveODS writes the spreadsheet to path.
func SaveODS(path string, sections []Section) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.NewIO("close", path, cerr)
		}
	}()
	if err := WriteODS(f, sections); err != nil {
		return errors.NewIO("write ods", path, err)
	}
	return nil
}
