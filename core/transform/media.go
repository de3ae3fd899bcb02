package transform

import (
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

var rasterExts = map[string]bool{
	".tif":  true,
	".tiff": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".psd":  true,
}

var vectorExts = map[string]bool{
	".svg": true,
	".eps": true,
	".ai":  true,
	".pdf": true,
}

func processMedia(c *Context) {
	opts := c.Options
	for _, obj := range c.Doc.Elements("mediaobject", "inlinemediaobject") {
		img := xml.NextElement(obj, "imagedata")
		if img == nil {
			logging.Warn("media object without imagedata", "element", xml.QName(obj))
			continue
		}
		ref, ok := xml.Attr(img, "fileref")
		if !ok {
			logging.Warn("imagedata without fileref", "element", xml.QName(obj))
			continue
		}
		rewritten := MediaRef(ref, opts)
		img.SetAttr("fileref", rewritten)
		if opts.Raster != "" || opts.Vector != "" || opts.Media != "" {
			logging.Debug("media reference rewritten", "from", ref, "to", rewritten)
		}
	}
}

// MediaRef rewrites an image reference: the file name is decoded and
// slugged, the extension lowercased or swapped for the configured raster
// or vector one, and with a media folder set only the file name is kept
// under that folder.
func MediaRef(ref string, opts Options) string {
	base, ext := text.SplitExt(ref)
	base = text.DecodePath(base)

	name := base
	dir := ""
	if i := strings.LastIndex(base, "/"); i >= 0 {
		dir, name = base[:i+1], base[i+1:]
	}
	base = dir + text.Slugify(name, text.MediaSlugParts)

	lower := strings.ToLower(ext)
	var out string
	switch {
	case opts.Raster != "" && rasterExts[lower]:
		out = base + "." + opts.Raster
	case opts.Vector != "" && vectorExts[lower]:
		out = base + "." + opts.Vector
	default:
		out = base + lower
	}

	if opts.Media != "" {
		return opts.Media + "/" + out[strings.LastIndex(out, "/")+1:]
	}
	return out
}
