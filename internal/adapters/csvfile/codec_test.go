package csvfile

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestCodec_WriteTable(t *testing.T) {
	var buf bytes.Buffer
	codec := NewCodec(';')

	err := codec.WriteTable(&buf, []string{"id", "school_name"}, [][]string{
		{"ENG-001", "Realschule am Park"},
		{"ENG-002", "Schule; mit Semikolon"},
	})
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	want := "id;school_name\nENG-001;Realschule am Park\nENG-002;\"Schule; mit Semikolon\"\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestCodec_ReadTable(t *testing.T) {
	input := "\ufeffid; first_name ;last_name\nAMB-001;Lena;Hoffmann\n\n;;\nAMB-002;Jonas\n"
	codec := NewCodec(';')

	header, rows, err := codec.ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	if !reflect.DeepEqual(header, []string{"id", "first_name", "last_name"}) {
		t.Errorf("header = %q", header)
	}
	want := [][]string{
		{"AMB-001", "Lena", "Hoffmann"},
		{"AMB-002", "Jonas", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}

func TestCodec_RoundTripWithComma(t *testing.T) {
	codec := NewCodec(',')
	rows := [][]string{{"a,b", "line\nbreak"}}

	var buf bytes.Buffer
	if err := codec.WriteTable(&buf, []string{"x", "y"}, rows); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	_, got, err := codec.ReadTable(&buf)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("rows = %q, want %q", got, rows)
	}
}

func TestCodec_ReadTable_Empty(t *testing.T) {
	_, _, err := NewCodec(0).ReadTable(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}
