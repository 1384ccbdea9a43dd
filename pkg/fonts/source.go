package fonts

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/httputil"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// DefaultExt is the font file extension used when a source leaves it empty.
const DefaultExt = "otf"

// Source provides the raw bytes of one font weight.
type Source interface {
	Load(ctx context.Context, weight layout.Font) ([]byte, error)
}

// fileName returns "<weight>.<ext>".
func fileName(weight layout.Font, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return string(weight) + "." + strings.TrimPrefix(ext, ".")
}

// DirSource reads <Dir>/<weight>.<Ext>.
type DirSource struct {
	Dir string
	Ext string
}

// Load implements Source.
func (s DirSource) Load(_ context.Context, weight layout.Font) ([]byte, error) {
	name := fileName(weight, s.Ext)
	if err := apperrors.ValidatePath(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFontUnavailable, err, "read %s", name)
	}
	return data, nil
}

// URLSource downloads <BaseURL>/<weight>.<Ext>.
type URLSource struct {
	BaseURL string
	Ext     string
	Client  *httputil.Client // nil uses a default client
}

// Load implements Source.
func (s URLSource) Load(ctx context.Context, weight layout.Font) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = httputil.NewClient(httputil.Options{})
	}
	name := fileName(weight, s.Ext)
	u := strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(name)
	if err := apperrors.ValidateURL(u); err != nil {
		return nil, err
	}
	data, err := client.Get(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFontUnavailable, err, "download %s", name)
	}
	return data, nil
}

// EmbeddedSource serves the Go fonts compiled into the binary. The light
// weights map to Go Regular, medium and semibold to Go Medium, and the bold
// weights to Go Bold.
type EmbeddedSource struct{}

// Load implements Source.
func (EmbeddedSource) Load(_ context.Context, weight layout.Font) ([]byte, error) {
	switch weight {
	case layout.FontMedium, layout.FontSemibold:
		return gomedium.TTF, nil
	case layout.FontBold, layout.FontVeryBold:
		return gobold.TTF, nil
	default:
		return goregular.TTF, nil
	}
}

// SourceFor picks a source from configuration: a directory wins over a base
// URL, and with neither the embedded fonts are used.
func SourceFor(dir, baseURL, ext string, client *httputil.Client) Source {
	switch {
	case dir != "":
		return DirSource{Dir: dir, Ext: ext}
	case baseURL != "":
		return URLSource{BaseURL: baseURL, Ext: ext, Client: client}
	default:
		return EmbeddedSource{}
	}
}
