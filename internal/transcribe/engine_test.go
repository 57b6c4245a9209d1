package transcribe

import (
	"reflect"
	"testing"
)

func TestNormalizeTrimsAndDropsEmptySegments(t *testing.T) {
	raw := []Segment{
		{Start: 0.001, End: 1.239, Text: "  hello world "},
		{Start: 1.24, End: 2.0, Text: "   "},
		{Start: 2.006, End: 3.499, Text: "\tsecond line\n"},
		{Start: 3.5, End: 4.0, Text: ""},
	}

	result := Normalize("en", raw)

	if result.Language != "en" {
		t.Errorf("language = %q, want en", result.Language)
	}
	want := []Segment{
		{Start: 0.0, End: 1.24, Text: "hello world"},
		{Start: 2.01, End: 3.5, Text: "second line"},
	}
	if !reflect.DeepEqual(result.Segments, want) {
		t.Errorf("segments = %+v, want %+v", result.Segments, want)
	}
}

func TestNormalizePreservesEmissionOrder(t *testing.T) {
	raw := []Segment{
		{Start: 0, End: 1, Text: "one"},
		{Start: 1, End: 2, Text: "two"},
		{Start: 2, End: 3, Text: "three"},
	}

	result := Normalize("", raw)

	for i, seg := range result.Segments {
		if i > 0 && seg.Start < result.Segments[i-1].Start {
			t.Errorf("segment %d starts at %v before previous %v", i, seg.Start, result.Segments[i-1].Start)
		}
	}
	if result.Text() != "one\ntwo\nthree" {
		t.Errorf("text = %q", result.Text())
	}
}

func TestTextEmptyForNoSegments(t *testing.T) {
	result := Normalize("en", nil)
	if result.Text() != "" {
		t.Errorf("text = %q, want empty", result.Text())
	}
	if len(result.Segments) != 0 {
		t.Errorf("segments = %v, want none", result.Segments)
	}
}
