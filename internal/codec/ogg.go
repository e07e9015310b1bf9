package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/go-flac/flacpicture"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// Ogg comment keys holding embedded art. METADATA_BLOCK_PICTURE is the
// picture-block convention and the only one ever written; the legacy
// COVERART field still counts as cover evidence on read.
const (
	oggPictureKey    = "METADATA_BLOCK_PICTURE"
	oggLegacyArtKey  = "COVERART"
	oggLegacyMimeKey = "COVERARTMIME"
)

// oggCodec edits Vorbis comments in Ogg Vorbis and Ogg Opus streams.
//
// The comment header is the second packet of the logical stream. A write
// extracts the header packets after the identification page, rebuilds
// the comment packet, repaginates the header region with fresh lacing
// and checksums, and renumbers every following page so the sequence
// stays contiguous. Audio page payloads are never touched.
//
// Cover art has no native slot: the cover is a FLAC picture structure,
// base64-encoded under the METADATA_BLOCK_PICTURE comment key.
type oggCodec struct {
	kind format.Kind
}

func (c *oggCodec) Kind() format.Kind { return c.kind }

func (c *oggCodec) Read(path string) (model.Tags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Tags{}, readErr(c.kind, path, err)
	}
	_, comments, _, err := c.parseStream(data)
	if err != nil {
		return model.Tags{}, readErr(c.kind, path, err)
	}

	tags := model.Tags{
		Title:  firstVorbisValue(comments, vorbisKeys[model.FieldTitle]),
		Artist: firstVorbisValue(comments, vorbisKeys[model.FieldArtist]),
		Album:  firstVorbisValue(comments, vorbisKeys[model.FieldAlbum]),
		Year:   firstVorbisValue(comments, vorbisKeys[model.FieldYear]),
		Genre:  firstVorbisValue(comments, vorbisKeys[model.FieldGenre]),
	}
	tags.HasCover = firstVorbisValue(comments, oggPictureKey).Set ||
		firstVorbisValue(comments, oggLegacyArtKey).Set
	return tags, nil
}

func (c *oggCodec) WriteField(path string, field model.Field, value string) error {
	key := vorbisKeys[field]
	err := c.rewrite(path, func(comments []string) []string {
		comments = removeVorbisKey(comments, key)
		return append(comments, key+"="+value)
	})
	if err != nil {
		return writeFieldErr(c.kind, path, field, err)
	}
	return nil
}

func (c *oggCodec) WriteCover(path string, pic model.Picture) error {
	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, pic.Description, pic.Data, pic.MIME)
	if err != nil {
		return writeCoverErr(c.kind, path, err)
	}
	block := picture.Marshal()
	encoded := base64.StdEncoding.EncodeToString(block.Data)

	err = c.rewrite(path, func(comments []string) []string {
		comments = removeVorbisKey(comments, oggPictureKey)
		comments = removeVorbisKey(comments, oggLegacyArtKey)
		comments = removeVorbisKey(comments, oggLegacyMimeKey)
		return append(comments, oggPictureKey+"="+encoded)
	})
	if err != nil {
		return writeCoverErr(c.kind, path, err)
	}
	return nil
}

// identification and comment header magics.
var (
	vorbisIDMagic      = []byte("\x01vorbis")
	vorbisCommentMagic = []byte("\x03vorbis")
	opusIDMagic        = []byte("OpusHead")
	opusTagsMagic      = []byte("OpusTags")
)

// headerPacketsAfterID returns how many header packets follow the
// identification packet: comment and setup for Vorbis, OpusTags only
// for Opus.
func (c *oggCodec) headerPacketsAfterID() int {
	if c.kind == format.OggOpus {
		return 1
	}
	return 2
}

func (c *oggCodec) idMagic() []byte {
	if c.kind == format.OggOpus {
		return opusIDMagic
	}
	return vorbisIDMagic
}

func (c *oggCodec) commentMagic() []byte {
	if c.kind == format.OggOpus {
		return opusTagsMagic
	}
	return vorbisCommentMagic
}

// framingBit reports whether the comment packet carries the trailing
// Vorbis framing byte (Opus has none).
func (c *oggCodec) framingBit() bool {
	return c.kind != format.OggOpus
}

// parseStream parses the whole file and decodes the comment header.
// It returns the vendor string, the comment list, and the raw pages.
func (c *oggCodec) parseStream(data []byte) (string, []string, []oggPage, error) {
	pages, err := parseOggPages(data)
	if err != nil {
		return "", nil, nil, err
	}
	if !bytes.HasPrefix(pages[0].data, c.idMagic()) {
		return "", nil, nil, fmt.Errorf("not an %s stream", c.kind)
	}
	_, packets, err := oggHeaderRegion(pages, c.headerPacketsAfterID())
	if err != nil {
		return "", nil, nil, err
	}
	vendor, comments, err := parseVorbisCommentPacket(packets[0], c.commentMagic(), c.framingBit())
	if err != nil {
		return "", nil, nil, err
	}
	return vendor, comments, pages, nil
}

// rewrite re-emits the file with the comment list transformed by fn.
func (c *oggCodec) rewrite(path string, fn func(comments []string) []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pages, err := parseOggPages(data)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(pages[0].data, c.idMagic()) {
		return fmt.Errorf("not an %s stream", c.kind)
	}
	regionEnd, packets, err := oggHeaderRegion(pages, c.headerPacketsAfterID())
	if err != nil {
		return err
	}
	vendor, comments, err := parseVorbisCommentPacket(packets[0], c.commentMagic(), c.framingBit())
	if err != nil {
		return err
	}

	packets[0] = buildVorbisCommentPacket(c.commentMagic(), vendor, fn(comments), c.framingBit())

	serial := pages[0].serial
	headerPages := oggPaginate(packets, serial)

	var out []byte
	out = append(out, pages[0].marshal()...)
	seq := uint32(1)
	for i := range headerPages {
		headerPages[i].seq = seq
		seq++
		out = append(out, headerPages[i].marshal()...)
	}
	for _, p := range pages[regionEnd:] {
		p.seq = seq
		seq++
		out = append(out, p.marshal()...)
	}

	return writeFileAtomic(path, out)
}

// oggPage is one parsed Ogg page. The CRC is recomputed on marshal.
type oggPage struct {
	headerType byte
	granule    uint64
	serial     uint32
	seq        uint32
	segments   []byte
	data       []byte
}

// parseOggPages splits the whole buffer into pages, validating magic,
// version and lengths.
func parseOggPages(data []byte) ([]oggPage, error) {
	var pages []oggPage
	off := 0
	for off < len(data) {
		if off+27 > len(data) || string(data[off:off+4]) != "OggS" {
			return nil, fmt.Errorf("invalid Ogg page at offset %d", off)
		}
		if data[off+4] != 0 {
			return nil, fmt.Errorf("unsupported Ogg stream structure version %d", data[off+4])
		}
		nseg := int(data[off+26])
		if off+27+nseg > len(data) {
			return nil, fmt.Errorf("truncated Ogg segment table at offset %d", off)
		}
		segments := append([]byte(nil), data[off+27:off+27+nseg]...)
		size := 0
		for _, s := range segments {
			size += int(s)
		}
		bodyStart := off + 27 + nseg
		if bodyStart+size > len(data) {
			return nil, fmt.Errorf("truncated Ogg page body at offset %d", off)
		}
		pages = append(pages, oggPage{
			headerType: data[off+5],
			granule:    binary.LittleEndian.Uint64(data[off+6:]),
			serial:     binary.LittleEndian.Uint32(data[off+14:]),
			seq:        binary.LittleEndian.Uint32(data[off+18:]),
			segments:   segments,
			data:       append([]byte(nil), data[bodyStart:bodyStart+size]...),
		})
		off = bodyStart + size
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no Ogg pages")
	}
	return pages, nil
}

// oggHeaderRegion walks pages after the identification page and
// extracts packets until the required number of header packets is
// complete at a page boundary. It returns the index of the first page
// after the header region and every packet found inside it.
//
// Packet boundaries follow the lacing values: a segment shorter than
// 255 bytes ends the running packet.
func oggHeaderRegion(pages []oggPage, needed int) (int, [][]byte, error) {
	var packets [][]byte
	var current []byte
	inPacket := false
	completed := 0

	for i := 1; i < len(pages); i++ {
		p := pages[i]
		dataOff := 0
		for _, seg := range p.segments {
			current = append(current, p.data[dataOff:dataOff+int(seg)]...)
			inPacket = true
			dataOff += int(seg)
			if seg < 255 {
				packets = append(packets, current)
				current = nil
				inPacket = false
				completed++
			}
		}
		if completed >= needed && !inPacket {
			return i + 1, packets, nil
		}
	}
	return 0, nil, fmt.Errorf("incomplete Ogg header packets: want %d, got %d", needed, completed)
}

// oggPaginate lays packets out into fresh pages: standard lacing, at
// most 255 segments per page, continuation flag on pages starting
// mid-packet. Header pages carry granule position zero.
func oggPaginate(packets [][]byte, serial uint32) []oggPage {
	var pages []oggPage
	var segs, body []byte
	continued := false

	flush := func() {
		headerType := byte(0)
		if continued {
			headerType = 0x01
		}
		pages = append(pages, oggPage{
			headerType: headerType,
			serial:     serial,
			segments:   segs,
			data:       body,
		})
		continued = len(segs) > 0 && segs[len(segs)-1] == 255
		segs, body = nil, nil
	}

	for _, pkt := range packets {
		rem := len(pkt)
		off := 0
		for {
			if len(segs) == 255 {
				flush()
			}
			if rem >= 255 {
				segs = append(segs, 255)
				body = append(body, pkt[off:off+255]...)
				off += 255
				rem -= 255
				continue
			}
			segs = append(segs, byte(rem))
			body = append(body, pkt[off:]...)
			break
		}
	}
	if len(segs) > 0 {
		flush()
	}
	return pages
}

// marshal serializes the page and stamps the Ogg CRC.
func (p oggPage) marshal() []byte {
	out := make([]byte, 27+len(p.segments)+len(p.data))
	copy(out, "OggS")
	out[5] = p.headerType
	binary.LittleEndian.PutUint64(out[6:], p.granule)
	binary.LittleEndian.PutUint32(out[14:], p.serial)
	binary.LittleEndian.PutUint32(out[18:], p.seq)
	// CRC bytes 22-25 stay zero during computation.
	out[26] = byte(len(p.segments))
	copy(out[27:], p.segments)
	copy(out[27+len(p.segments):], p.data)
	binary.LittleEndian.PutUint32(out[22:], oggCRC(out))
	return out
}

// oggCRC is the Ogg page checksum: CRC-32 with polynomial 0x04c11db7,
// no bit reflection, zero initial value and zero final XOR.
var oggCRCTable = func() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}()

func oggCRC(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc << 8) ^ oggCRCTable[byte(crc>>24)^b]
	}
	return crc
}

// parseVorbisCommentPacket decodes a comment header packet: magic,
// vendor string, then length-prefixed KEY=value entries, all lengths
// 32-bit little-endian.
func parseVorbisCommentPacket(pkt, magic []byte, framing bool) (string, []string, error) {
	if !bytes.HasPrefix(pkt, magic) {
		return "", nil, fmt.Errorf("no comment header magic")
	}
	off := len(magic)

	readU32 := func() (uint32, error) {
		if off+4 > len(pkt) {
			return 0, fmt.Errorf("truncated comment header at offset %d", off)
		}
		v := binary.LittleEndian.Uint32(pkt[off:])
		off += 4
		return v, nil
	}

	vendorLen, err := readU32()
	if err != nil {
		return "", nil, err
	}
	if off+int(vendorLen) > len(pkt) {
		return "", nil, fmt.Errorf("truncated vendor string")
	}
	vendor := string(pkt[off : off+int(vendorLen)])
	off += int(vendorLen)

	count, err := readU32()
	if err != nil {
		return "", nil, err
	}
	comments := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		length, err := readU32()
		if err != nil {
			return "", nil, err
		}
		if off+int(length) > len(pkt) {
			return "", nil, fmt.Errorf("truncated comment %d", i)
		}
		comments = append(comments, string(pkt[off:off+int(length)]))
		off += int(length)
	}

	if framing && (off >= len(pkt) || pkt[off]&0x01 == 0) {
		return "", nil, fmt.Errorf("missing Vorbis framing bit")
	}
	return vendor, comments, nil
}

// buildVorbisCommentPacket is the inverse of parseVorbisCommentPacket.
func buildVorbisCommentPacket(magic []byte, vendor string, comments []string, framing bool) []byte {
	var buf bytes.Buffer
	buf.Write(magic)

	writeU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	writeU32(uint32(len(vendor)))
	buf.WriteString(vendor)
	writeU32(uint32(len(comments)))
	for _, c := range comments {
		writeU32(uint32(len(c)))
		buf.WriteString(c)
	}
	if framing {
		buf.WriteByte(0x01)
	}
	return buf.Bytes()
}

// firstVorbisValue returns the first value stored under key
// (case-insensitive), or unset.
func firstVorbisValue(comments []string, key string) model.TagValue {
	for _, c := range comments {
		k, v, found := strings.Cut(c, "=")
		if found && strings.EqualFold(k, key) {
			return model.SetValue(v)
		}
	}
	return model.Unset()
}

// removeVorbisKey drops every comment stored under key, case-insensitively.
func removeVorbisKey(comments []string, key string) []string {
	kept := comments[:0]
	for _, c := range comments {
		k, _, found := strings.Cut(c, "=")
		if found && strings.EqualFold(k, key) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
