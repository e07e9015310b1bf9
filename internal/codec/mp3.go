package codec

import (
	id3v2 "github.com/bogem/id3v2/v2"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// id3Frames maps each field to its ID3v2 text frame.
var id3Frames = map[model.Field]string{
	model.FieldTitle:  "TIT2",
	model.FieldArtist: "TPE1",
	model.FieldAlbum:  "TALB",
	model.FieldYear:   "TDRC",
	model.FieldGenre:  "TCON",
}

// mp3Codec edits ID3v2 tags in MPEG audio files.
//
// MP3 files are allowed to carry no tag container at all; the id3v2
// library returns an empty in-memory tag for those and the first write
// creates the container. Covers live in APIC frames, which the format
// permits in multiples; the codec enforces a single instance by
// deleting every APIC frame before inserting the new cover.
type mp3Codec struct{}

func (c *mp3Codec) Kind() format.Kind { return format.MP3 }

func (c *mp3Codec) Read(path string) (model.Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return model.Tags{}, readErr(format.MP3, path, err)
	}
	defer tag.Close()

	tags := model.Tags{
		Title:  id3Text(tag, id3Frames[model.FieldTitle]),
		Artist: id3Text(tag, id3Frames[model.FieldArtist]),
		Album:  id3Text(tag, id3Frames[model.FieldAlbum]),
		Year:   id3Text(tag, id3Frames[model.FieldYear]),
		Genre:  id3Text(tag, id3Frames[model.FieldGenre]),
	}
	tags.HasCover = len(tag.GetFrames(tag.CommonID("Attached picture"))) > 0
	return tags, nil
}

func (c *mp3Codec) WriteField(path string, field model.Field, value string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return writeFieldErr(format.MP3, path, field, err)
	}
	defer tag.Close()

	tag.AddTextFrame(id3Frames[field], id3v2.EncodingUTF8, value)
	if err := tag.Save(); err != nil {
		return writeFieldErr(format.MP3, path, field, err)
	}
	return nil
}

func (c *mp3Codec) WriteCover(path string, pic model.Picture) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return writeCoverErr(format.MP3, path, err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    pic.MIME,
		PictureType: id3v2.PTFrontCover,
		Description: pic.Description,
		Picture:     pic.Data,
	})
	if err := tag.Save(); err != nil {
		return writeCoverErr(format.MP3, path, err)
	}
	return nil
}

// id3Text reads one text frame, distinguishing an absent frame from a
// present frame with empty text.
func id3Text(tag *id3v2.Tag, id string) model.TagValue {
	frames := tag.GetFrames(id)
	if len(frames) == 0 {
		return model.Unset()
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return model.SetValue(tf.Text)
	}
	return model.Unset()
}
