package codec

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// writeFixture drops file bytes into a fresh temp dir and returns the path.
func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// newMP3File creates a tagless file of fake MPEG frame data.
func newMP3File(t *testing.T) string {
	t.Helper()
	data := append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0x55}, 256)...)
	return writeFixture(t, "track.mp3", data)
}

// newFLACFile creates a FLAC container holding only a zeroed STREAMINFO
// block and no audio frames.
func newFLACFile(t *testing.T) string {
	t.Helper()
	data := []byte("fLaC")
	// Last-block flag set, type 0 (STREAMINFO), 34-byte body.
	data = append(data, 0x80, 0x00, 0x00, 0x22)
	data = append(data, make([]byte, 34)...)
	return writeFixture(t, "track.flac", data)
}

// mp4TestFile assembles an MPEG-4 file from top-level atoms.
func mp4TestFile(t *testing.T, atoms ...[]byte) string {
	t.Helper()
	var data []byte
	for _, a := range atoms {
		data = append(data, a...)
	}
	return writeFixture(t, "track.m4a", data)
}

func mp4Ftyp() []byte {
	body := make([]byte, 12)
	copy(body, "M4A ")
	copy(body[8:], "M4A ")
	return mp4Atom("ftyp", body)
}

// mp4StcoAtom builds an stco atom holding the given 32-bit chunk offsets.
func mp4StcoAtom(offsets ...uint32) []byte {
	body := make([]byte, 8+4*len(offsets))
	binary.BigEndian.PutUint32(body[4:], uint32(len(offsets)))
	for i, off := range offsets {
		binary.BigEndian.PutUint32(body[8+4*i:], off)
	}
	return mp4Atom("stco", body)
}

// mp4TrakWithStco wraps an stco atom in the trak/mdia/minf/stbl chain.
func mp4TrakWithStco(stco []byte) []byte {
	return mp4Atom("trak", mp4Atom("mdia", mp4Atom("minf", mp4Atom("stbl", stco))))
}

// mp4ReadStco re-parses the file and returns the stco entries.
func mp4ReadStco(t *testing.T, path string) []uint32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	top, err := mp4Children(data, 0, len(data))
	if err != nil {
		t.Fatalf("parse atoms: %v", err)
	}
	moov := mp4Find(top, "moov")
	if moov == nil {
		t.Fatal("no moov atom")
	}
	var offsets []uint32
	var walk func(start, end int)
	walk = func(start, end int) {
		kids, err := mp4Children(data, start, end)
		if err != nil {
			t.Fatalf("parse atoms: %v", err)
		}
		for _, b := range kids {
			switch b.name {
			case "stco":
				count := int(binary.BigEndian.Uint32(data[b.bodyStart()+4:]))
				for i := 0; i < count; i++ {
					offsets = append(offsets, binary.BigEndian.Uint32(data[b.bodyStart()+8+4*i:]))
				}
			case "trak", "mdia", "minf", "stbl":
				walk(b.bodyStart(), b.end)
			}
		}
	}
	walk(moov.bodyStart(), moov.end)
	return offsets
}

// newOggFile assembles a playable-shaped Ogg stream: identification
// page, header pages built from the given comments, and two audio pages.
func newOggFile(t *testing.T, kind format.Kind, comments []string) string {
	t.Helper()

	var idPkt []byte
	var headerPkts [][]byte
	name := "track.ogg"
	switch kind {
	case format.OggVorbis:
		idPkt = append([]byte("\x01vorbis"), make([]byte, 23)...)
		comment := buildVorbisCommentPacket([]byte("\x03vorbis"), "test vendor", comments, true)
		setup := append([]byte("\x05vorbis"), bytes.Repeat([]byte{0xAB}, 600)...)
		headerPkts = [][]byte{comment, setup}
	case format.OggOpus:
		idPkt = append([]byte("OpusHead"), make([]byte, 11)...)
		comment := buildVorbisCommentPacket([]byte("OpusTags"), "test vendor", comments, false)
		headerPkts = [][]byte{comment}
		name = "track.opus"
	default:
		t.Fatalf("not an Ogg kind: %v", kind)
	}

	const serial = 0x1234
	var data []byte

	idPage := oggPage{
		headerType: 0x02, // beginning of stream
		serial:     serial,
		seq:        0,
		segments:   []byte{byte(len(idPkt))},
		data:       idPkt,
	}
	data = append(data, idPage.marshal()...)

	seq := uint32(1)
	for _, p := range oggPaginate(headerPkts, serial) {
		p.seq = seq
		seq++
		data = append(data, p.marshal()...)
	}

	for i, payload := range [][]byte{oggAudioPayload(0), oggAudioPayload(1)} {
		p := oggPage{
			granule:  uint64(1000 * (i + 1)),
			serial:   serial,
			seq:      seq,
			segments: []byte{byte(len(payload))},
			data:     payload,
		}
		seq++
		data = append(data, p.marshal()...)
	}

	return writeFixture(t, name, data)
}

// oggAudioPayload returns a recognizable fake audio packet.
func oggAudioPayload(n int) []byte {
	return bytes.Repeat([]byte{0xC0 + byte(n)}, 40+n)
}

// verifyOggPages re-parses the file, checking page CRCs and sequence
// numbering, and returns the pages.
func verifyOggPages(t *testing.T, path string) []oggPage {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	pages, err := parseOggPages(data)
	if err != nil {
		t.Fatalf("parse pages: %v", err)
	}

	// Recompute each page's checksum from the raw bytes.
	off := 0
	for i, p := range pages {
		pageLen := 27 + len(p.segments) + len(p.data)
		raw := append([]byte(nil), data[off:off+pageLen]...)
		stored := binary.LittleEndian.Uint32(raw[22:])
		raw[22], raw[23], raw[24], raw[25] = 0, 0, 0, 0
		if got := oggCRC(raw); got != stored {
			t.Errorf("page %d: CRC = %#x, want %#x", i, stored, got)
		}
		if p.seq != uint32(i) {
			t.Errorf("page %d: sequence number %d", i, p.seq)
		}
		off += pageLen
	}
	return pages
}

// smallJPEG encodes a tiny valid JPEG for cover payloads.
func smallJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func testPicture(t *testing.T) model.Picture {
	return model.Picture{MIME: "image/jpeg", Description: "Cover", Data: smallJPEG(t)}
}

// fieldValues exercises verbatim storage: plain, empty and non-ASCII.
var fieldValues = map[model.Field]string{
	model.FieldTitle:  "Midnight Drive",
	model.FieldArtist: "Ólafur Björk",
	model.FieldAlbum:  "",
	model.FieldYear:   "2019-05-01",
	model.FieldGenre:  "Синтвейв",
}

// writeAllFields applies every fieldValues entry through the codec.
func writeAllFields(t *testing.T, c Codec, path string) {
	t.Helper()
	for field, value := range fieldValues {
		if err := c.WriteField(path, field, value); err != nil {
			t.Fatalf("WriteField(%s): %v", field, err)
		}
	}
}

// checkAllFields asserts a read snapshot matches fieldValues exactly.
func checkAllFields(t *testing.T, tags model.Tags) {
	t.Helper()
	for field, want := range fieldValues {
		got := tags.Get(field)
		if !got.Set {
			t.Errorf("%s: unset, want %q", field, want)
			continue
		}
		if got.Value != want {
			t.Errorf("%s = %q, want %q", field, got.Value, want)
		}
	}
}
