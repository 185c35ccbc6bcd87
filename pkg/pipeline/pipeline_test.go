package pipeline

import (
	"testing"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/render/legend"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"json", false},
		{"legend", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" svg, HTML,,svg ,json")
	want := []string{"svg", "html", "json"}
	if len(got) != len(want) {
		t.Fatalf("ParseFormats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseFormats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatTables(t *testing.T) {
	for _, f := range FormatNames {
		if !ValidFormats[f] {
			t.Errorf("%s listed but not valid", f)
		}
		if Extensions[f] == "" {
			t.Errorf("%s has no extension", f)
		}
		if ContentTypes[f] == "" {
			t.Errorf("%s has no content type", f)
		}
	}
	if len(FormatNames) != len(ValidFormats) {
		t.Error("FormatNames and ValidFormats disagree")
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()

	if o.URL != dataset.DefaultURL {
		t.Errorf("URL = %q, want default", o.URL)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("canvas = %vx%v, want %vx%v", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	local := Options{Input: "sales.json"}
	local.SetDefaults()
	if local.URL != "" {
		t.Errorf("URL = %q, want empty when Input is set", local.URL)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"defaults", Options{}, ""},
		{"local file skips URL check", Options{Input: "x.json", URL: "ftp://nope"}, ""},
		{"bad url", Options{URL: "ftp://example.com/data.json"}, errors.ErrCodeInvalidURL},
		{"negative width", Options{Width: -5}, errors.ErrCodeInvalidSize},
		{"padding too large", Options{PaddingOuter: 300}, errors.ErrCodeInvalidSize},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSource(t *testing.T) {
	f := dataset.NewFetcher(nil)

	local := Options{Input: "sales.json", URL: "https://example.com/x.json"}
	if _, ok := local.Source(f).(dataset.FileSource); !ok {
		t.Error("Input should select a FileSource")
	}

	remote := Options{URL: "https://example.com/x.json", Refresh: true}
	src, ok := remote.Source(f).(dataset.URLSource)
	if !ok {
		t.Fatal("URL should select a URLSource")
	}
	if !src.Refresh || src.URL != remote.URL {
		t.Errorf("URLSource = %+v", src)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Width: 800, Height: 400, PaddingOuter: 2, Tooltip: true, Labels: legend.Labels{"Wii": "Nintendo Wii"}}
	k := o.ArtifactKeyOpts(FormatHTML)
	if k.Format != FormatHTML || k.Width != 800 || k.Height != 400 || k.PaddingOuter != 2 || !k.Tooltip {
		t.Errorf("ArtifactKeyOpts() = %+v", k)
	}
	if k.LabelsHash == "" {
		t.Error("labels should contribute to the key")
	}
}
