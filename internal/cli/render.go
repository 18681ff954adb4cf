package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/matrix"
	"github.com/matzehuels/emojiqr/pkg/payload"
	"github.com/matzehuels/emojiqr/pkg/pipeline"
)

// defaultOutputBase names output files when neither --output nor a caption is given.
const defaultOutputBase = "qr"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	kind       string   // payload kind; empty renders the data argument as text
	fields     []string // payload fields as key=value
	level      string   // error correction level
	matrixPath string   // render a module matrix file instead of encoding

	modulePx int
	border   int

	formats  string
	output   string // output file (single format) or base path
	pngWidth int
	engine   string

	assetsDir string
	refresh   bool

	style styleFlags
}

// primaryField is the field a positional data argument fills for each kind.
var primaryField = map[payload.Kind]string{
	payload.KindText:    "text",
	payload.KindURL:     "url",
	payload.KindWiFi:    "ssid",
	payload.KindSMS:     "number",
	payload.KindPayment: "link",
	payload.KindMap:     "query",
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		modulePx:  pipeline.DefaultModulePx,
		border:    pipeline.DefaultBorder,
		pngWidth:  pipeline.DefaultPNGWidth,
		assetsDir: assets.DefaultDir,
	}

	cmd := &cobra.Command{
		Use:   "render [data]",
		Short: "Render a styled QR code to SVG, PNG, PDF or JSON",
		Long: `Render encodes a payload and writes one file per requested format.

The payload is the data argument ("-" reads stdin), or is built from --kind
and --field. Styles resolve in order: defaults, --preset/--look, --config,
then any style flag given on the command line.`,
		Example: `  emojiqr render https://example.com
  emojiqr render --kind wifi --field ssid=Home --field password=secret --preset wifi --look 1
  emojiqr render "hello" --fill emoji --module-emoji 🍀 --caption "Lucky" -f svg,png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.kind, "kind", "k", "", "payload kind: text, url, wifi, sms, vcard, payment, map")
	fs.StringArrayVar(&opts.fields, "field", nil, "payload field as key=value (repeatable)")
	fs.StringVarP(&opts.level, "ecc", "e", string(matrix.DefaultLevel), "error correction level: L, M, Q, H")
	fs.StringVar(&opts.matrixPath, "matrix", "", "render a module matrix file (rows of 0/1) instead of encoding")
	fs.IntVar(&opts.modulePx, "module-px", opts.modulePx, "module size in pixels")
	fs.IntVar(&opts.border, "border", opts.border, "quiet zone in modules (0 for none)")
	fs.StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, pdf, json (comma-separated)")
	fs.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.IntVar(&opts.pngWidth, "png-width", opts.pngWidth, "PNG width in pixels")
	fs.StringVar(&opts.engine, "engine", "", "PNG engine: native or rsvg")
	fs.StringVar(&opts.assetsDir, "assets", opts.assetsDir, "directory of emoji PNGs named by code point")
	fs.BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	opts.style.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	style, err := opts.style.resolve(cmd)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Level:    opts.level,
		ModulePx: opts.modulePx,
		Border:   pipeline.Border(opts.border),
		Style:    style,
		Formats:  pipeline.ParseFormats(opts.formats),
		PNGWidth: opts.pngWidth,
		Engine:   opts.engine,
		Refresh:  opts.refresh,
		Logger:   logger,
	}
	if len(popts.Formats) == 0 {
		popts.Formats = []string{pipeline.FormatSVG}
	}
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.matrixPath != "" {
		if popts.Matrix, err = readMatrix(opts.matrixPath); err != nil {
			return err
		}
	} else if popts.Content, err = opts.content(args, cmd.InOrStdin()); err != nil {
		return err
	}

	paths, err := outputPaths(opts.output, style.Caption, popts.Formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.assetsDir)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if slices.Contains(popts.Formats, pipeline.FormatPNG) || slices.Contains(popts.Formats, pipeline.FormatPDF) {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
		spin.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		printWarning(out, "%s", w)
	}
	for _, format := range popts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	printSuccess(out, "Rendered %dx%d", result.Width, result.Height)
	printStats(out, result.Side, result.Modules, result.Overlay, result.CacheHit)
	for _, format := range popts.Formats {
		printFile(out, paths[format])
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(popts.Formats)))
	return nil
}

// content returns the string to encode: the data argument, stdin for "-",
// or a payload built from --kind and --field.
func (o *renderOpts) content(args []string, stdin io.Reader) (string, error) {
	var data string
	if len(args) == 1 {
		data = args[0]
		if data == "-" {
			raw, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			data = strings.TrimRight(string(raw), "\r\n")
		}
	}
	if o.kind == "" && len(o.fields) == 0 {
		if data == "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "nothing to encode: pass data, --kind/--field or --matrix")
		}
		return data, nil
	}

	kind, err := payload.ParseKind(o.kind)
	if err != nil {
		return "", err
	}
	fields, err := parseFields(o.fields)
	if err != nil {
		return "", err
	}
	if data != "" {
		key, ok := primaryField[kind]
		if !ok {
			return "", errors.New(errors.ErrCodeInvalidInput, "kind %s takes --field values only", kind)
		}
		if _, set := fields[key]; !set {
			fields[key] = data
		}
	}
	return payload.Build(string(kind), fields)
}

// parseFields splits key=value pairs. Keys are lowercased; values are kept
// verbatim.
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "field %q is not key=value", p)
		}
		fields[key] = value
	}
	return fields, nil
}

func readMatrix(path string) (*matrix.Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	return matrix.Parse(data)
}

var slugReplacer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// slugify turns a caption into a file name.
func slugify(s string) string {
	s = strings.Trim(slugReplacer.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
	if s == "" || s == "." || s == ".." {
		return defaultOutputBase
	}
	return s
}

// outputPaths maps each format to its file. A single format with an output
// that already carries its extension is written verbatim; otherwise the
// extension is appended to the base.
func outputPaths(output, caption string, formats []string) (map[string]string, error) {
	base := output
	if base == "" {
		base = slugify(caption)
	}
	if len(formats) == 1 && strings.EqualFold(filepath.Ext(base), "."+formats[0]) {
		if err := errors.ValidateOutputBase(filepath.Base(base)); err != nil {
			return nil, err
		}
		return map[string]string{formats[0]: base}, nil
	}
	if ext := filepath.Ext(base); pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	if err := errors.ValidateOutputBase(filepath.Base(base)); err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths, nil
}
