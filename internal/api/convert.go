package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/golden"
	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/internal/validation"
	"github.com/zeebo/blake3"
)

// ConvertRequest is the body of POST /convert and POST /jobs. Exactly
// one of HubXML and IDML is set; IDML travels base64-encoded.
type ConvertRequest struct {
	Filename string          `json:"filename"`
	HubXML   string          `json:"hubxml,omitempty"`
	IDML     []byte          `json:"idml,omitempty"`
	Options  *RequestOptions `json:"options,omitempty"`
}

// RequestOptions override the server defaults for one request. Nil
// fields keep the default.
type RequestOptions struct {
	Typography        *bool   `json:"typography,omitempty"`
	IgnoreOverrides   *bool   `json:"ignore_overrides,omitempty"`
	ThinSpaces        *bool   `json:"thin_spaces,omitempty"`
	Linebreaks        *bool   `json:"linebreaks,omitempty"`
	RelocateSpanSpace *bool   `json:"relocate_span_space,omitempty"`
	Media             *string `json:"media,omitempty"`
	Raster            *string `json:"raster,omitempty"`
	Vector            *string `json:"vector,omitempty"`
}

// ConvertResult is the outcome of a conversion request.
type ConvertResult struct {
	Filename  string         `json:"filename"`
	Kind      string         `json:"kind"`
	DocBook   string         `json:"docbook"`
	Hash      string         `json:"blake3"`
	Overrides map[string]int `json:"overrides"`
	Duration  string         `json:"duration"`
	Cached    bool           `json:"cached"`
}

// progressFunc receives conversion stages; it may be nil.
type progressFunc func(stage string, progress int)

func (req *ConvertRequest) kind() validation.InputKind {
	if len(req.IDML) > 0 {
		return validation.KindIDML
	}
	return validation.KindHubXML
}

func (req *ConvertRequest) validate() error {
	hasHub, hasIDML := req.HubXML != "", len(req.IDML) > 0
	switch {
	case hasHub && hasIDML:
		return errors.NewValidation("hubxml", "only one of hubxml and idml may be set")
	case !hasHub && !hasIDML:
		return errors.NewValidation("hubxml", "one of hubxml and idml is required")
	}
	if req.Filename == "" {
		req.Filename = "document.xml"
		if hasIDML {
			req.Filename = "document.idml"
		}
	}
	name, err := validation.SanitizeFilename(req.Filename)
	if err != nil {
		return errors.NewValidation("filename", err.Error())
	}
	req.Filename = name

	var head []byte
	if hasIDML {
		head = req.IDML
	} else {
		head = []byte(req.HubXML)
	}
	if got := validation.DetectInput(head); got != req.kind() {
		return errors.NewValidation(string(req.kind()), "content is "+string(got))
	}
	return nil
}

// options resolves the conversion options of req.
func (s *Server) options(req *ConvertRequest) docbook.Options {
	opts := s.cfg.Conversion.Options
	o := req.Options
	if o == nil {
		return opts
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool(&opts.Typography, o.Typography)
	setBool(&opts.IgnoreOverrides, o.IgnoreOverrides)
	setBool(&opts.ThinSpaces, o.ThinSpaces)
	setBool(&opts.Linebreaks, o.Linebreaks)
	setBool(&opts.RelocateSpanSpace, o.RelocateSpanSpace)
	setString(&opts.Media, o.Media)
	setString(&opts.Raster, o.Raster)
	setString(&opts.Vector, o.Vector)
	return opts
}

// convert runs one conversion. IDML uploads are written to a private
// temporary folder that is removed afterwards.
func (s *Server) convert(ctx context.Context, req *ConvertRequest, progress progressFunc) (*ConvertResult, error) {
	if progress == nil {
		progress = func(string, int) {}
	}
	start := time.Now()
	kind := req.kind()
	opts := s.options(req)

	key := resultKey(req, opts)
	if hit, ok := s.results.Get(key); ok {
		hit.Filename = outputName(req.Filename)
		hit.Cached = true
		hit.Duration = time.Since(start).Round(time.Millisecond).String()
		s.metrics.cacheHits.Inc()
		progress("done", 100)
		return &hit, nil
	}

	var (
		res *docbook.Result
		err error
	)
	if kind == validation.KindHubXML {
		progress("transform", 30)
		res, err = docbook.Convert([]byte(req.HubXML), opts)
	} else {
		res, err = s.convertIDML(ctx, req, opts, progress)
	}
	s.metrics.ObserveConversion(string(kind), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	progress("done", 100)

	overrides := make(map[string]int, len(styles.Categories))
	for _, c := range styles.Categories {
		overrides[string(c)] = res.Registry.Len(c)
	}
	result := ConvertResult{
		Filename:  outputName(req.Filename),
		Kind:      string(kind),
		DocBook:   res.DocBook,
		Hash:      golden.Hash([]byte(res.DocBook)),
		Overrides: overrides,
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	}
	s.results.Set(key, result)
	return &result, nil
}

func outputName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".dbk"
}

// resultKey identifies a request by its input and resolved options.
func resultKey(req *ConvertRequest, opts docbook.Options) string {
	h := blake3.New()
	_ = json.NewEncoder(h).Encode(opts)
	h.Write([]byte(req.kind()))
	h.Write([]byte{0})
	if len(req.IDML) > 0 {
		h.Write(req.IDML)
	} else {
		h.Write([]byte(req.HubXML))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Server) convertIDML(ctx context.Context, req *ConvertRequest, opts docbook.Options, progress progressFunc) (*docbook.Result, error) {
	if s.runner == nil {
		return nil, errors.NewConfig("IDML2HUBXML_SCRIPT_FOLDER", "server cannot convert IDML files without a script folder")
	}
	dir, err := os.MkdirTemp(s.cfg.WorkDir, "idml2docbook-*")
	if err != nil {
		return nil, errors.NewIO("create work dir", s.cfg.WorkDir, err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, req.Filename)
	if err := os.WriteFile(input, req.IDML, 0o600); err != nil {
		return nil, errors.NewIO("write", input, err)
	}

	runner := *s.runner
	runner.OutputFolder = filepath.Join(dir, "hubxml")
	progress("idml2xml", 10)
	hubPath, err := runner.Convert(ctx, input)
	if err != nil {
		return nil, err
	}
	progress("transform", 60)
	return docbook.ConvertFile(hubPath, opts)
}
