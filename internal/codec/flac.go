package codec

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// vorbisKeys maps each field to its Vorbis comment key. The same
// mapping serves FLAC and both Ogg codecs; Vorbis keys are
// case-insensitive and written uppercase by convention.
var vorbisKeys = map[model.Field]string{
	model.FieldTitle:  flacvorbis.FIELD_TITLE,
	model.FieldArtist: flacvorbis.FIELD_ARTIST,
	model.FieldAlbum:  flacvorbis.FIELD_ALBUM,
	model.FieldYear:   flacvorbis.FIELD_DATE,
	model.FieldGenre:  flacvorbis.FIELD_GENRE,
}

// flacCodec edits Vorbis comments and picture blocks in FLAC files.
//
// FLAC stores a list of values per comment key; only the first value is
// read, and a field write replaces the key wholesale rather than
// appending. Covers are METADATA_BLOCK_PICTURE blocks; a cover write
// clears every picture block before adding the new one.
type flacCodec struct{}

func (c *flacCodec) Kind() format.Kind { return format.FLAC }

func (c *flacCodec) Read(path string) (model.Tags, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return model.Tags{}, readErr(format.FLAC, path, err)
	}

	var tags model.Tags
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return model.Tags{}, readErr(format.FLAC, path, err)
			}
			tags.Title = firstComment(cmts, vorbisKeys[model.FieldTitle])
			tags.Artist = firstComment(cmts, vorbisKeys[model.FieldArtist])
			tags.Album = firstComment(cmts, vorbisKeys[model.FieldAlbum])
			tags.Year = firstComment(cmts, vorbisKeys[model.FieldYear])
			tags.Genre = firstComment(cmts, vorbisKeys[model.FieldGenre])
		case flac.Picture:
			tags.HasCover = true
		}
	}
	return tags, nil
}

func (c *flacCodec) WriteField(path string, field model.Field, value string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return writeFieldErr(format.FLAC, path, field, err)
	}

	cmts, idx, err := findVorbisComment(f)
	if err != nil {
		return writeFieldErr(format.FLAC, path, field, err)
	}
	if cmts == nil {
		cmts = flacvorbis.New()
	}

	key := vorbisKeys[field]
	removeComments(cmts, key)
	if err := cmts.Add(key, value); err != nil {
		return writeFieldErr(format.FLAC, path, field, err)
	}

	block := cmts.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return writeFieldErr(format.FLAC, path, field, err)
	}
	return nil
}

func (c *flacCodec) WriteCover(path string, pic model.Picture) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return writeCoverErr(format.FLAC, path, err)
	}

	// Clear every existing picture block first so exactly one remains.
	kept := f.Meta[:0]
	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, pic.Description, pic.Data, pic.MIME)
	if err != nil {
		return writeCoverErr(format.FLAC, path, err)
	}
	block := picture.Marshal()
	f.Meta = append(f.Meta, &block)

	if err := f.Save(path); err != nil {
		return writeCoverErr(format.FLAC, path, err)
	}
	return nil
}

// findVorbisComment returns the parsed comment block and its index in
// f.Meta, or (nil, -1) when the file has no comment block yet.
func findVorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, -1, fmt.Errorf("parse vorbis comment block: %w", err)
			}
			return cmts, i, nil
		}
	}
	return nil, -1, nil
}

// firstComment returns the first value stored under key, or unset when
// the key is absent.
func firstComment(cmts *flacvorbis.MetaDataBlockVorbisComment, key string) model.TagValue {
	values, err := cmts.Get(key)
	if err != nil || len(values) == 0 {
		return model.Unset()
	}
	return model.SetValue(values[0])
}

// removeComments drops every value stored under key, so a following Add
// replaces the field wholesale instead of appending.
func removeComments(cmts *flacvorbis.MetaDataBlockVorbisComment, key string) {
	kept := cmts.Comments[:0]
	for _, comment := range cmts.Comments {
		k, _, found := strings.Cut(comment, "=")
		if found && strings.EqualFold(k, key) {
			continue
		}
		kept = append(kept, comment)
	}
	cmts.Comments = kept
}
