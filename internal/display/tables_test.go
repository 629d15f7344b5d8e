package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const codecsSample = `Codecs:
 D..... = Decoding supported
 .E.... = Encoding supported
 ..V... = Video codec
 ..A... = Audio codec
 ..S... = Subtitle codec
 ..D... = Data codec
 ..T... = Attachment codec
 ...I.. = Intra frame-only codec
 ....L. = Lossy compression
 .....S = Lossless compression
 -------
 D.VI.S 012v                 Uncompressed 4:2:2 10-bit
 DEV.LS h264                 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (decoders: h264 h264_qsv ) (encoders: libx264 )
 DEA.L. aac                  AAC (Advanced Audio Coding)
`

const formatsSample = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  3dostr          3DO STR
  E 3g2             3GP2 (3GPP2 file format)
 DE matroska,webm   Matroska / WebM
`

func TestParseListing_Codecs(t *testing.T) {
	l, err := ParseListing(codecsSample)
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if l.Title != "Codecs" {
		t.Errorf("Title = %q", l.Title)
	}
	if len(l.Legend) != 10 {
		t.Errorf("legend entries = %d, want 10", len(l.Legend))
	}
	if l.Legend[0] != (Legend{Flags: "D.....", Meaning: "Decoding supported"}) {
		t.Errorf("legend[0] = %+v", l.Legend[0])
	}
	want := []Entry{
		{"D.VI.S", "012v", "Uncompressed 4:2:2 10-bit"},
		{"DEV.LS", "h264", "H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (decoders: h264 h264_qsv ) (encoders: libx264 )"},
		{"DEA.L.", "aac", "AAC (Advanced Audio Coding)"},
	}
	if len(l.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(l.Entries), len(want))
	}
	for i := range want {
		if l.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, l.Entries[i], want[i])
		}
	}
}

func TestParseListing_FormatsWithBlankFlags(t *testing.T) {
	l, err := ParseListing(formatsSample)
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	want := []Entry{
		{"D ", "3dostr", "3DO STR"},
		{" E", "3g2", "3GP2 (3GPP2 file format)"},
		{"DE", "matroska,webm", "Matroska / WebM"},
	}
	if len(l.Entries) != len(want) {
		t.Fatalf("entries = %+v", l.Entries)
	}
	for i := range want {
		if l.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, l.Entries[i], want[i])
		}
	}
}

func TestParseListing_NoLegendUsesSeparator(t *testing.T) {
	l, err := ParseListing("Hardware:\n ---\n DE. thing   A thing\n")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	want := Entry{"DE.", "thing", "A thing"}
	if len(l.Entries) != 1 || l.Entries[0] != want {
		t.Errorf("entries = %+v, want [%+v]", l.Entries, want)
	}
}

func TestParseListing_Unrecognized(t *testing.T) {
	_, err := ParseListing("Unrecognized option 'codecz'.\nError splitting the argument list\n")
	if !errors.Is(err, ErrUnrecognized) {
		t.Errorf("err = %v, want ErrUnrecognized", err)
	}
}

func TestRenderListing(t *testing.T) {
	l, err := ParseListing(codecsSample)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderListing(l)
	for _, want := range []string{"Codecs", "Flags", "Name", "Description", "h264", "aac", "Lossless compression"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q", want)
		}
	}
}

func TestParseHWAccels(t *testing.T) {
	raw := "Hardware acceleration methods:\nvdpau\ncuda\n\nvaapi\n"
	got := ParseHWAccels(raw)
	want := []string{"vdpau", "cuda", "vaapi"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if out := RenderHWAccels(got); !strings.Contains(out, "cuda") || !strings.Contains(out, "Hardware acceleration") {
		t.Errorf("render:\n%s", out)
	}
}

func TestRenderHelp(t *testing.T) {
	out := RenderHelp("Encoder aac", "Encoder aac [AAC (Advanced Audio Coding)]:\n    General capabilities: delay small\n")
	if !strings.Contains(out, "Encoder aac") || !strings.Contains(out, "General capabilities") {
		t.Errorf("render:\n%s", out)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	if !strings.Contains(buf.String(), "|_|  |_|") {
		t.Errorf("banner:\n%s", buf.String())
	}
}
