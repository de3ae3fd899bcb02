package main

import (
	"io"
	"os"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/mapfile"
	"github.com/FocuswithJustin/idml2docbook/core/report"
	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/core/transform"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// StylesCmd inspects the styles of a HubXML file.
type StylesCmd struct {
	Input          string `arg:"" help:"HubXML file produced by idml2xml" type:"existingfile"`
	Map            string `arg:"" optional:"" help:"Map file (JSON or YAML) to check coverage against" type:"path"`
	ToODS          bool   `name:"to-ods" help:"Write the styles and overrides to <input>.ods"`
	ToCSS          bool   `name:"to-css" help:"Write the styles and overrides to <input>.css"`
	ToJSONTemplate bool   `name:"to-json-template" help:"Write an empty map template to <input>_template.json"`
}

// analysis is what the styles command learns from one document.
type analysis struct {
	paragraph []styles.Style
	character []styles.Style
	registry  *styles.Registry
	roles     []mapfile.RoleTag
}

// analyze slugs the role names, extracts the style rules, then turns
// the overrides into roles before listing the role/tag couples.
func analyze(path string) (*analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("HubXML", path, err.Error())
	}

	c := transform.NewContext(doc, docbook.DefaultOptions())
	if err := runPasses(c, "roles"); err != nil {
		return nil, err
	}
	paragraph, character := styles.ExtractStyles(doc)
	if err := runPasses(c, "overrides"); err != nil {
		return nil, err
	}

	roles, err := mapfile.CollectRoles(doc)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return &analysis{paragraph: paragraph, character: character, registry: c.Registry, roles: roles}, nil
}

func runPasses(c *transform.Context, names ...string) error {
	p, err := transform.Default().Only(names...)
	if err != nil {
		return err
	}
	return p.Run(c)
}

func (c *StylesCmd) Run(out io.Writer) error {
	a, err := analyze(c.Input)
	if err != nil {
		return err
	}

	if c.ToODS || c.ToCSS {
		sections := report.Sections(a.paragraph, a.character, a.registry)
		if c.ToODS {
			path := report.ODSPath(c.Input)
			if err := report.SaveODS(path, sections); err != nil {
				return err
			}
			logging.Info("spreadsheet written", "path", path)
		}
		if c.ToCSS {
			path := report.CSSPath(c.Input)
			if err := report.SaveCSS(path, sections); err != nil {
				return err
			}
			logging.Info("stylesheet written", "path", path)
		}
	}

	if c.ToJSONTemplate {
		path, err := mapfile.SaveTemplate(c.Input, a.roles)
		if err != nil {
			return err
		}
		logging.Info("map template written", "path", path)
	}

	var m *mapfile.Map
	if c.Map != "" {
		if m, err = mapfile.Load(c.Map); err != nil {
			logging.Warn("map file not loaded", "path", c.Map, "error", err)
			m = nil
		}
	}
	_, err = mapfile.NewReport(c.Input, c.Map, a.roles, m).WriteTo(out)
	return err
}
