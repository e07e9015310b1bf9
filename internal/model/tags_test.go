package model

import "testing"

func TestTagValue_Display(t *testing.T) {
	if got := SetValue("Midnight").Display(); got != "Midnight" {
		t.Errorf("Display() = %q, want %q", got, "Midnight")
	}
	if got := Unset().Display(); got != NotSetDisplay {
		t.Errorf("Display() = %q, want %q", got, NotSetDisplay)
	}
}

func TestTagValue_EmptyPresentIsNotAbsent(t *testing.T) {
	v := SetValue("")
	if !v.Set {
		t.Error("SetValue(\"\") should be present")
	}
	if v.Display() == NotSetDisplay {
		t.Error("present empty value should not display as Not set")
	}
}

func TestTagValue_LiteralNotSetRoundTrips(t *testing.T) {
	// A stored value that happens to equal the display sentinel is
	// still a real value.
	v := SetValue(NotSetDisplay)
	if !v.Set {
		t.Error("value equal to sentinel should stay present")
	}
	if v.Display() != NotSetDisplay {
		t.Errorf("Display() = %q", v.Display())
	}
}

func TestTags_Get(t *testing.T) {
	tags := Tags{
		Title:  SetValue("t"),
		Artist: SetValue("ar"),
		Album:  SetValue("al"),
		Year:   SetValue("2020"),
		Genre:  SetValue("g"),
	}

	want := map[Field]string{
		FieldTitle:  "t",
		FieldArtist: "ar",
		FieldAlbum:  "al",
		FieldYear:   "2020",
		FieldGenre:  "g",
	}
	for field, value := range want {
		if got := tags.Get(field); got.Value != value || !got.Set {
			t.Errorf("Get(%s) = %+v, want %q", field, got, value)
		}
	}

	if got := tags.Get(Field(99)); got.Set {
		t.Errorf("Get of unknown field should be unset, got %+v", got)
	}
}

func TestParseField(t *testing.T) {
	for _, field := range Fields() {
		parsed, ok := ParseField(field.String())
		if !ok {
			t.Errorf("ParseField(%q) not ok", field.String())
		}
		if parsed != field {
			t.Errorf("ParseField(%q) = %v, want %v", field.String(), parsed, field)
		}
	}

	for _, name := range []string{"", "Title", "TITLE", "track", "cover"} {
		if _, ok := ParseField(name); ok {
			t.Errorf("ParseField(%q) should fail", name)
		}
	}
}

func TestField_Valid(t *testing.T) {
	for _, field := range Fields() {
		if !field.Valid() {
			t.Errorf("%s should be valid", field)
		}
	}
	if Field(-1).Valid() || Field(5).Valid() {
		t.Error("out-of-range fields should be invalid")
	}
}
