package linguistic

import (
	"context"
	"reflect"
	"testing"
)

func TestLocalTokenizeSplitsOnWhitespace(t *testing.T) {
	l := NewLocal()
	got, err := l.Tokenize(context.Background(), "  saya  demam\tdan batuk ")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []string{"saya", "demam", "dan", "batuk"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens=%v, want %v", got, want)
	}

	empty, err := l.Tokenize(context.Background(), "")
	if err != nil {
		t.Fatalf("Tokenize empty error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty text tokens=%v, want none", empty)
	}
}

func TestLocalRemoveStopwordsKeepsSymptomWords(t *testing.T) {
	l := NewLocal()
	got, err := l.RemoveStopwords(context.Background(), []string{"halo", "saya", "sering", "kencing", "dan", "demam", "tinggi"})
	if err != nil {
		t.Fatalf("RemoveStopwords error: %v", err)
	}
	want := []string{"sering", "kencing", "demam", "tinggi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens=%v, want %v", got, want)
	}
}

func TestLocalStemReducesToRoot(t *testing.T) {
	l := NewLocal()
	got, err := l.Stem(context.Background(), []string{"makanan", "demam", "batuk"})
	if err != nil {
		t.Fatalf("Stem error: %v", err)
	}
	want := []string{"makan", "demam", "batuk"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roots=%v, want %v", got, want)
	}
}

func TestStopwordListHasNoDuplicates(t *testing.T) {
	set := newStopwordSet(indonesianStopwords)
	if len(set) != len(indonesianStopwords) {
		t.Fatalf("stopword set size=%d, list size=%d", len(set), len(indonesianStopwords))
	}
}
