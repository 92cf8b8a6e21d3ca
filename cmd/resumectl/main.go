// Command resumectl renders a resume JSON file to PDF or to the HTML used by
// the raster backend, and inspects existing PDFs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"resume-renderer/internal/compose"
	"resume-renderer/internal/inspect"
	"resume-renderer/internal/labels"
	"resume-renderer/internal/layout"
	"resume-renderer/internal/logging"
	"resume-renderer/internal/model"
	"resume-renderer/internal/usecase"
	infra "resume-renderer/pkg/infrastructure"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "resumectl: %v\n", err)
		os.Exit(2)
	}
}

type options struct {
	in, out     string
	backend     string
	lang        string
	labelsPath  string
	html        bool
	inspectPath string
	preview     string
	fontRegular string
	fontBold    string
	chromePath  string
	logLevel    string
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var o options
	fs := pflag.NewFlagSet("resumectl", pflag.ContinueOnError)
	fs.StringVarP(&o.in, "in", "i", "", "resume JSON file")
	fs.StringVarP(&o.out, "out", "o", "", "output file (default: <name>.pdf or <name>.html)")
	fs.StringVarP(&o.backend, "backend", "b", string(compose.BackendVector), "raster or vector")
	fs.StringVarP(&o.lang, "lang", "l", labels.DefaultLanguage, "label language")
	fs.StringVar(&o.labelsPath, "labels", "", "yaml file overriding section labels")
	fs.BoolVar(&o.html, "html", false, "write the raster surface HTML instead of a PDF")
	fs.StringVar(&o.inspectPath, "inspect", "", "report pages and text of an existing PDF")
	fs.StringVar(&o.preview, "preview", "", "write a JPEG of the first page to this path")
	fs.StringVar(&o.fontRegular, "font-regular", "", "TrueType font for the vector backend")
	fs.StringVar(&o.fontBold, "font-bold", "", "bold TrueType font for the vector backend")
	fs.StringVar(&o.chromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable for the raster backend")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if o.inspectPath != "" {
		return inspectFile(o, stdout)
	}
	if o.in == "" {
		return errors.New("--in is required")
	}

	raw, err := os.ReadFile(o.in)
	if err != nil {
		return err
	}
	doc, err := model.Decode(raw)
	if err != nil {
		return err
	}
	l := labels.For(o.lang)
	if o.labelsPath != "" {
		if l, err = loadLabels(o.labelsPath, l); err != nil {
			return err
		}
	}

	geom := compose.DefaultGeometry()
	if o.html {
		out := o.out
		if out == "" {
			out = strings.TrimSuffix(doc.FileName(), ".pdf") + ".html"
		}
		html, err := compose.RenderHTML(layout.Build(doc, l), compose.A4, geom)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", out)
		return nil
	}

	c, closeFn, err := compositor(o, geom)
	if err != nil {
		return err
	}
	defer closeFn()

	pdf, err := usecase.Render(ctx, c, doc, l, compose.A4)
	if err != nil {
		return err
	}
	pages, err := inspect.Verify(pdf)
	if err != nil {
		return err
	}
	out := o.out
	if out == "" {
		out = doc.FileName()
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d pages, %d bytes)\n", out, pages, len(pdf))

	if o.preview != "" {
		return writePreview(pdf, o.preview, stdout)
	}
	return nil
}

func compositor(o options, geom compose.Geometry) (compose.Compositor, func(), error) {
	backend, err := compose.ParseBackend(o.backend)
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(logging.Config{Level: o.logLevel, Format: "pretty"}, os.Stderr)

	if backend == compose.BackendRaster {
		s := infra.NewChromeSurface(infra.ChromeOptions{ExecPath: o.chromePath}, log)
		return compose.NewRasterCompositor(s, geom, log), s.Close, nil
	}
	fonts, err := compose.LoadFonts(o.fontRegular, o.fontBold)
	if err != nil {
		return nil, nil, err
	}
	return compose.NewVectorCompositor(geom, fonts, log), func() {}, nil
}

func loadLabels(path string, base labels.Labels) (labels.Labels, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var l labels.Labels
	if err := yaml.Unmarshal(b, &l); err != nil {
		return base, fmt.Errorf("parse labels %s: %w", path, err)
	}
	return l.Merge(base), nil
}

func inspectFile(o options, stdout io.Writer) error {
	b, err := os.ReadFile(o.inspectPath)
	if err != nil {
		return err
	}
	rep, err := inspect.Inspect(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "pages: %d\nsize: %d\ntext: %s\n", rep.Pages, rep.Size, rep.Text)
	if o.preview != "" {
		return writePreview(b, o.preview, stdout)
	}
	return nil
}

func writePreview(pdf []byte, path string, stdout io.Writer) error {
	img, err := inspect.Preview(pdf, 0)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}
