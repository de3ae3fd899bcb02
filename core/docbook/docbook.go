// Package docbook converts HubXML documents to DocBook 5.
//
// Convert runs the structural passes of package transform over the
// parsed document, serializes it, replaces the remaining hard breaks by
// AsciiDoc break markers and re-indents the result.
package docbook

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/hubxml"
	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/core/transform"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// Version of the converter.
const Version = "1.1.3"

// BreakMarker replaces every <br/> left in the output.
const BreakMarker = "<simpara><?asciidoc-br?></simpara>"

// Options configures a conversion.
type Options = transform.Options

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return transform.DefaultOptions()
}

// Result is the outcome of a conversion.
type Result struct {
	DocBook  string
	Registry *styles.Registry    // overrides discovered in the input
	Roles    []styles.NamedStyle // named styles renamed to slugs

	HubXML     []byte // the converted HubXML, set by ConvertFile
	HubXMLPath string
}

// Convert turns HubXML bytes into DocBook.
func Convert(hubxml []byte, opts Options) (*Result, error) {
	doc, err := xml.Parse(hubxml)
	if err != nil {
		return nil, errors.NewParse("HubXML", "", err.Error())
	}
	return convertDocument(doc, opts)
}

func convertDocument(doc *xml.Document, opts Options) (*Result, error) {
	c := transform.NewContext(doc, opts)
	if err := transform.Default().Run(c); err != nil {
		return nil, err
	}
	out := xml.Reindent(ReplaceBreaks(doc.Serialize()))
	return &Result{DocBook: out, Registry: c.Registry, Roles: c.Roles}, nil
}

// ConvertFile reads and converts the HubXML file at path.
func ConvertFile(path string, opts Options) (*Result, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("HubXML", path, err.Error())
	}
	res, err := convertDocument(doc, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", path)
	}
	res.HubXML = data
	res.HubXMLPath = path
	logging.ConversionDone(path, time.Since(start),
		"paragraph_overrides", res.Registry.Len(styles.Paragraph),
		"character_overrides", res.Registry.Len(styles.Character),
		"object_overrides", res.Registry.Len(styles.Object),
	)
	return res, nil
}

// ConvertInput converts input, running idml2xml first unless the input is
// already HubXML.
func ConvertInput(ctx context.Context, input string, isHubXML bool, runner *hubxml.Runner, opts Options) (*Result, error) {
	path := input
	if !isHubXML {
		if runner == nil {
			return nil, errors.NewConfig("IDML2HUBXML_SCRIPT_FOLDER", "script folder is required to convert IDML files")
		}
		var err error
		if path, err = runner.Convert(ctx, input); err != nil {
			return nil, err
		}
	}
	return ConvertFile(path, opts)
}

// ReplaceBreaks swaps hard breaks for AsciiDoc break markers.
func ReplaceBreaks(s string) string {
	return strings.ReplaceAll(s, "<br/>", BreakMarker)
}

// WriteFile writes a conversion result to path.
func WriteFile(path string, res *Result) error {
	if err := os.WriteFile(path, []byte(res.DocBook), 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
