package campuskit

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/campuskit/campuskit/internal/fileutil"
	"github.com/campuskit/campuskit/internal/process"
)

// Snapshotter renders a local HTML file to PDF or PNG bytes.
type Snapshotter interface {
	Snapshot(ctx context.Context, filePath string, opts ExportOptions) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ Snapshotter = (*rodSnapshotter)(nil)

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.4
)

// rodSnapshotter implements Snapshotter using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodSnapshotter struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodSnapshotter(timeout time.Duration) *rodSnapshotter {
	return &rodSnapshotter{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (s *rodSnapshotter) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox is required in CI and containers
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		s.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.launcher = l
	s.browser = browser
	return nil
}

// Close releases browser resources and kills any Chrome child processes left
// in the process group.
func (s *rodSnapshotter) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.kill(s.launcher)
		s.launcher = nil
	}
	return err
}

func (s *rodSnapshotter) kill(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
	l.Cleanup()
}

// Snapshot opens filePath in headless Chrome and captures it.
func (s *rodSnapshotter) Snapshot(ctx context.Context, filePath string, opts ExportOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: fileutil.ToFileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if opts.Format == FormatPNG {
		w, h := opts.viewport()
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             w,
			Height:            h,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: setting viewport: %v", ErrScreenshot, err)
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatPNG:
		return s.screenshot(page, opts)
	case FormatPDF:
		return s.pdf(page)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidExportFormat, int(opts.Format))
}

func (s *rodSnapshotter) pdf(page *rod.Page) ([]byte, error) {
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

func (s *rodSnapshotter) screenshot(page *rod.Page, opts ExportOptions) ([]byte, error) {
	buf, err := page.Screenshot(opts.Full, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return buf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
