package codec

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// mp4Atoms maps each field to its iTunes metadata atom. The © sign in
// the conventional spelling (©nam, ©ART, ...) is the single byte 0xA9.
var mp4Atoms = map[model.Field]string{
	model.FieldTitle:  "\xa9nam",
	model.FieldArtist: "\xa9ART",
	model.FieldAlbum:  "\xa9alb",
	model.FieldYear:   "\xa9day",
	model.FieldGenre:  "\xa9gen",
}

const mp4AtomCover = "covr"

// iTunes data atom well-known type codes.
const (
	mp4DataText uint32 = 1
	mp4DataJPEG uint32 = 13
)

// mp4Codec edits iTunes-style metadata atoms in MPEG-4 audio files.
//
// Metadata items live in moov/udta/meta/ilst; every missing link of that
// chain is created on first write. A write rebuilds the ilst atom with
// the one item replaced, patches the ancestor atom sizes, and adjusts
// stco/co64 chunk offsets when the media data shifted. The covr atom may
// hold a list of cover blobs; a cover write replaces the whole atom with
// a single JPEG entry.
type mp4Codec struct{}

func (c *mp4Codec) Kind() format.Kind { return format.MP4 }

func (c *mp4Codec) Read(path string) (model.Tags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Tags{}, readErr(format.MP4, path, err)
	}

	chain, err := mp4Locate(data)
	if err != nil {
		return model.Tags{}, readErr(format.MP4, path, err)
	}

	var tags model.Tags
	if chain.ilst == nil {
		return tags, nil
	}

	items, err := mp4Children(data, chain.ilst.bodyStart(), chain.ilst.end)
	if err != nil {
		return model.Tags{}, readErr(format.MP4, path, err)
	}
	for _, item := range items {
		if item.name == mp4AtomCover {
			tags.HasCover = true
			continue
		}
		for _, field := range model.Fields() {
			if item.name == mp4Atoms[field] {
				value, ok := mp4ItemText(data, item)
				if ok {
					tags = mp4SetField(tags, field, model.SetValue(value))
				}
			}
		}
	}
	return tags, nil
}

func (c *mp4Codec) WriteField(path string, field model.Field, value string) error {
	item := mp4Item(mp4Atoms[field], mp4DataText, []byte(value))
	if err := mp4Rewrite(path, mp4Atoms[field], item); err != nil {
		return writeFieldErr(format.MP4, path, field, err)
	}
	return nil
}

func (c *mp4Codec) WriteCover(path string, pic model.Picture) error {
	item := mp4Item(mp4AtomCover, mp4DataJPEG, pic.Data)
	if err := mp4Rewrite(path, mp4AtomCover, item); err != nil {
		return writeCoverErr(format.MP4, path, err)
	}
	return nil
}

// mp4SetField returns tags with the given field replaced.
func mp4SetField(tags model.Tags, field model.Field, v model.TagValue) model.Tags {
	switch field {
	case model.FieldTitle:
		tags.Title = v
	case model.FieldArtist:
		tags.Artist = v
	case model.FieldAlbum:
		tags.Album = v
	case model.FieldYear:
		tags.Year = v
	case model.FieldGenre:
		tags.Genre = v
	}
	return tags
}

// mp4Box is one atom located inside the file buffer. start addresses the
// size field; end is exclusive.
type mp4Box struct {
	name      string
	start     int
	headerLen int
	end       int
}

func (b mp4Box) bodyStart() int { return b.start + b.headerLen }
func (b mp4Box) size() int      { return b.end - b.start }

// mp4Children scans the sibling atoms in buf[start:end].
func mp4Children(buf []byte, start, end int) ([]mp4Box, error) {
	var boxes []mp4Box
	off := start
	for off+8 <= end {
		size := int(binary.BigEndian.Uint32(buf[off:]))
		name := string(buf[off+4 : off+8])
		headerLen := 8
		switch size {
		case 0:
			// Atom extends to the end of the enclosing space.
			size = end - off
		case 1:
			if off+16 > end {
				return nil, fmt.Errorf("truncated extended atom header at %d", off)
			}
			size64 := binary.BigEndian.Uint64(buf[off+8:])
			if size64 > uint64(end-off) {
				return nil, fmt.Errorf("atom %q size %d exceeds enclosing space", name, size64)
			}
			size = int(size64)
			headerLen = 16
		}
		if size < headerLen || off+size > end {
			return nil, fmt.Errorf("invalid atom %q size %d at offset %d", name, size, off)
		}
		boxes = append(boxes, mp4Box{name: name, start: off, headerLen: headerLen, end: off + size})
		off += size
	}
	if off != end && len(boxes) == 0 {
		return nil, fmt.Errorf("no atoms in range %d..%d", start, end)
	}
	return boxes, nil
}

func mp4Find(boxes []mp4Box, name string) *mp4Box {
	for i := range boxes {
		if boxes[i].name == name {
			return &boxes[i]
		}
	}
	return nil
}

// mp4Chain holds the located metadata ancestry. moov always exists in a
// valid file; the deeper links are nil when absent.
type mp4Chain struct {
	moov mp4Box
	udta *mp4Box
	meta *mp4Box
	ilst *mp4Box
}

// mp4Locate finds the moov/udta/meta/ilst chain. The meta atom is a full
// box: four version/flags bytes precede its children.
func mp4Locate(data []byte) (mp4Chain, error) {
	top, err := mp4Children(data, 0, len(data))
	if err != nil {
		return mp4Chain{}, err
	}
	moov := mp4Find(top, "moov")
	if moov == nil {
		return mp4Chain{}, fmt.Errorf("no moov atom")
	}
	chain := mp4Chain{moov: *moov}

	moovKids, err := mp4Children(data, moov.bodyStart(), moov.end)
	if err != nil {
		return mp4Chain{}, err
	}
	chain.udta = mp4Find(moovKids, "udta")
	if chain.udta == nil {
		return chain, nil
	}

	udtaKids, err := mp4Children(data, chain.udta.bodyStart(), chain.udta.end)
	if err != nil {
		return mp4Chain{}, err
	}
	chain.meta = mp4Find(udtaKids, "meta")
	if chain.meta == nil {
		return chain, nil
	}
	if chain.meta.bodyStart()+4 > chain.meta.end {
		return mp4Chain{}, fmt.Errorf("meta atom too small")
	}

	metaKids, err := mp4Children(data, chain.meta.bodyStart()+4, chain.meta.end)
	if err != nil {
		return mp4Chain{}, err
	}
	chain.ilst = mp4Find(metaKids, "ilst")
	return chain, nil
}

// mp4ItemText extracts the payload of the first data sub-atom of a
// metadata item. The payload starts after the data atom's type code and
// locale (8 bytes).
func mp4ItemText(buf []byte, item mp4Box) (string, bool) {
	kids, err := mp4Children(buf, item.bodyStart(), item.end)
	if err != nil {
		return "", false
	}
	d := mp4Find(kids, "data")
	if d == nil || d.bodyStart()+8 > d.end {
		return "", false
	}
	return string(buf[d.bodyStart()+8 : d.end]), true
}

// mp4Atom assembles an atom from its name and body.
func mp4Atom(name string, body []byte) []byte {
	out := make([]byte, 8+len(body))
	binary.BigEndian.PutUint32(out, uint32(8+len(body)))
	copy(out[4:], name)
	copy(out[8:], body)
	return out
}

// mp4Item builds a metadata item atom holding a single data sub-atom.
func mp4Item(name string, dataType uint32, payload []byte) []byte {
	body := make([]byte, 16+len(payload))
	binary.BigEndian.PutUint32(body, uint32(16+len(payload)))
	copy(body[4:], "data")
	binary.BigEndian.PutUint32(body[8:], dataType)
	// Bytes 12-15 are the locale, always zero.
	copy(body[16:], payload)
	return mp4Atom(name, body)
}

// mp4Hdlr builds the metadata handler atom required inside a fresh meta
// atom (handler type "mdir", manufacturer "appl").
func mp4Hdlr() []byte {
	body := make([]byte, 25)
	copy(body[8:], "mdir")
	copy(body[12:], "appl")
	return mp4Atom("hdlr", body)
}

// mp4Rewrite replaces (or inserts) one ilst item and writes the file
// back atomically.
func mp4Rewrite(path, itemName string, newItem []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chain, err := mp4Locate(data)
	if err != nil {
		return err
	}

	// The replaced byte range and its replacement, plus every ancestor
	// whose size field must absorb the length change.
	var repStart, repEnd int
	var rep []byte
	var ancestors []mp4Box

	switch {
	case chain.ilst != nil:
		items, err := mp4Children(data, chain.ilst.bodyStart(), chain.ilst.end)
		if err != nil {
			return err
		}
		var body []byte
		for _, item := range items {
			if item.name != itemName {
				body = append(body, data[item.start:item.end]...)
			}
		}
		body = append(body, newItem...)
		rep = mp4Atom("ilst", body)
		repStart, repEnd = chain.ilst.start, chain.ilst.end
		ancestors = []mp4Box{chain.moov, *chain.udta, *chain.meta}
	case chain.meta != nil:
		rep = mp4Atom("ilst", newItem)
		repStart, repEnd = chain.meta.end, chain.meta.end
		ancestors = []mp4Box{chain.moov, *chain.udta, *chain.meta}
	case chain.udta != nil:
		metaBody := append(make([]byte, 4), mp4Hdlr()...)
		metaBody = append(metaBody, mp4Atom("ilst", newItem)...)
		rep = mp4Atom("meta", metaBody)
		repStart, repEnd = chain.udta.end, chain.udta.end
		ancestors = []mp4Box{chain.moov, *chain.udta}
	default:
		metaBody := append(make([]byte, 4), mp4Hdlr()...)
		metaBody = append(metaBody, mp4Atom("ilst", newItem)...)
		rep = mp4Atom("udta", mp4Atom("meta", metaBody))
		repStart, repEnd = chain.moov.end, chain.moov.end
		ancestors = []mp4Box{chain.moov}
	}

	for _, a := range ancestors {
		if a.headerLen != 8 {
			return fmt.Errorf("atom %q uses 64-bit size, not supported for metadata ancestors", a.name)
		}
	}

	delta := len(rep) - (repEnd - repStart)
	out := make([]byte, 0, len(data)+delta)
	out = append(out, data[:repStart]...)
	out = append(out, rep...)
	out = append(out, data[repEnd:]...)

	// Ancestor headers sit before the replaced range, so their offsets
	// are unchanged in the new buffer.
	for _, a := range ancestors {
		binary.BigEndian.PutUint32(out[a.start:], uint32(a.size()+delta))
	}

	if delta != 0 {
		if err := mp4PatchChunkOffsets(out, repEnd, delta); err != nil {
			return err
		}
	}

	return writeFileAtomic(path, out)
}

// mp4PatchChunkOffsets shifts every stco/co64 entry that points at media
// data located after the edit point. Offsets before the edit point are
// untouched, which also covers files whose mdat precedes moov.
func mp4PatchChunkOffsets(buf []byte, oldCut, delta int) error {
	top, err := mp4Children(buf, 0, len(buf))
	if err != nil {
		return err
	}
	moov := mp4Find(top, "moov")
	if moov == nil {
		return fmt.Errorf("no moov atom after rewrite")
	}
	return mp4PatchChunkOffsetsIn(buf, moov.bodyStart(), moov.end, oldCut, delta)
}

func mp4PatchChunkOffsetsIn(buf []byte, start, end, oldCut, delta int) error {
	kids, err := mp4Children(buf, start, end)
	if err != nil {
		return err
	}
	for _, b := range kids {
		switch b.name {
		case "stco":
			if b.bodyStart()+8 > b.end {
				return fmt.Errorf("truncated stco atom")
			}
			count := int(binary.BigEndian.Uint32(buf[b.bodyStart()+4:]))
			off := b.bodyStart() + 8
			for i := 0; i < count && off+4 <= b.end; i, off = i+1, off+4 {
				v := binary.BigEndian.Uint32(buf[off:])
				if int(v) >= oldCut {
					binary.BigEndian.PutUint32(buf[off:], uint32(int(v)+delta))
				}
			}
		case "co64":
			if b.bodyStart()+8 > b.end {
				return fmt.Errorf("truncated co64 atom")
			}
			count := int(binary.BigEndian.Uint32(buf[b.bodyStart()+4:]))
			off := b.bodyStart() + 8
			for i := 0; i < count && off+8 <= b.end; i, off = i+1, off+8 {
				v := binary.BigEndian.Uint64(buf[off:])
				if v >= uint64(oldCut) {
					binary.BigEndian.PutUint64(buf[off:], uint64(int64(v)+int64(delta)))
				}
			}
		case "trak", "mdia", "minf", "stbl":
			if err := mp4PatchChunkOffsetsIn(buf, b.bodyStart(), b.end, oldCut, delta); err != nil {
				return err
			}
		}
	}
	return nil
}
