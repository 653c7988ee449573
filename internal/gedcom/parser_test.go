package gedcom

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("minimal individuals and family", func(t *testing.T) {
		input := `
0 @I1@ INDI
1 NAME John /Doe/
1 BIRT
2 DATE 1 JAN 1900
2 PLAC Springfield
0 @I2@ INDI
1 NAME Jane /Doe/
1 DEAT
2 DATE 2 FEB 2000
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
`
		data, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		wantIndividuals := []Individual{
			{
				ID:    "I1",
				Name:  "John /Doe/",
				Birth: &Event{Date: "1 JAN 1900", Place: "Springfield"},
			},
			{
				ID:    "I2",
				Name:  "Jane /Doe/",
				Death: &Event{Date: "2 FEB 2000"},
			},
		}
		if !reflect.DeepEqual(data.Individuals, wantIndividuals) {
			t.Fatalf("unexpected individuals: %#v", data.Individuals)
		}

		wantFamilies := []Family{
			{ID: "F1", HusbandID: "I1", WifeID: "I2", Children: []string{"I3"}},
		}
		if !reflect.DeepEqual(data.Families, wantFamilies) {
			t.Fatalf("unexpected families: %#v", data.Families)
		}
	})

	t.Run("missing individual id", func(t *testing.T) {
		_, err := Parse("0 INDI\n1 NAME Unknown\n")
		if !errors.Is(err, ErrMissingID) {
			t.Fatalf("expected ErrMissingID, got %v", err)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T", err)
		}
		if parseErr.Line != 1 || parseErr.Tag != "INDI" {
			t.Fatalf("unexpected location: line=%d tag=%q", parseErr.Line, parseErr.Tag)
		}
	})

	t.Run("missing family id", func(t *testing.T) {
		_, err := Parse("0 FAM\n")
		if !errors.Is(err, ErrMissingID) {
			t.Fatalf("expected ErrMissingID, got %v", err)
		}
	})

	t.Run("orphan name tag", func(t *testing.T) {
		_, err := Parse("1 NAME NoContext\n")
		if !errors.Is(err, ErrOrphanTag) {
			t.Fatalf("expected ErrOrphanTag, got %v", err)
		}
	})

	t.Run("date without birth context", func(t *testing.T) {
		input := `
0 @I1@ INDI
1 NAME Test /User/
2 DATE 1 JAN 2000
`
		_, err := Parse(input)
		if !errors.Is(err, ErrOrphanTag) {
			t.Fatalf("expected ErrOrphanTag, got %v", err)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T", err)
		}
		if parseErr.Line != 4 || parseErr.Tag != "DATE" {
			t.Fatalf("unexpected location: line=%d tag=%q", parseErr.Line, parseErr.Tag)
		}
	})

	t.Run("malformed level", func(t *testing.T) {
		_, err := Parse("x @I1@ INDI\n")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("level without tag", func(t *testing.T) {
		_, err := Parse("0\n")
		if !errors.Is(err, ErrMissingTag) {
			t.Fatalf("expected ErrMissingTag, got %v", err)
		}
	})

	t.Run("unknown tags are skipped", func(t *testing.T) {
		input := `
0 HEAD
1 SOUR kindred
0 @I1@ INDI
1 NAME Ada
1 SEX F
0 TRLR
`
		data, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(data.Individuals) != 1 || data.Individuals[0].Name != "Ada" {
			t.Fatalf("unexpected individuals: %#v", data.Individuals)
		}
	})

	t.Run("whitespace-only name treated as missing", func(t *testing.T) {
		data, err := Parse("0 @I1@ INDI\n1 NAME    \n")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if data.Individuals[0].HasName() {
			t.Fatalf("expected missing name, got %q", data.Individuals[0].Name)
		}
	})

	t.Run("duplicate birth keeps first occurrence", func(t *testing.T) {
		input := `
0 @I1@ INDI
1 NAME Twice Born
1 BIRT
2 DATE 1 JAN 1900
1 BIRT
2 DATE 2 FEB 1901
2 PLAC Elsewhere
`
		data, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		birth := data.Individuals[0].Birth
		if birth == nil || birth.Date != "1 JAN 1900" || birth.Place != "" {
			t.Fatalf("unexpected birth: %#v", birth)
		}
	})

	t.Run("bare birth yields empty event", func(t *testing.T) {
		data, err := Parse("0 @I1@ INDI\n1 BIRT\n")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if data.Individuals[0].Birth == nil {
			t.Fatalf("expected empty birth event")
		}
	})

	t.Run("duplicate child reference collapses", func(t *testing.T) {
		input := `
0 @F1@ FAM
1 CHIL @I1@
1 CHIL @I1@
1 CHIL @I2@
`
		data, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []string{"I1", "I2"}
		if !reflect.DeepEqual(data.Families[0].Children, want) {
			t.Fatalf("unexpected children: %#v", data.Families[0].Children)
		}
	})

	t.Run("parsing is deterministic", func(t *testing.T) {
		input := `
0 @I1@ INDI
1 NAME Ada
0 @F1@ FAM
1 WIFE @I1@
`
		first, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := Parse(input)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("parse not deterministic: %#v vs %#v", first, second)
		}
	})
}

func TestParseFile(t *testing.T) {
	t.Run("loads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "family.ged")
		contents := "0 @I1@ INDI\n1 NAME Test /User/\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		data, err := ParseFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(data.Individuals) != 1 || data.Individuals[0].Name != "Test /User/" {
			t.Fatalf("unexpected individuals: %#v", data.Individuals)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.ged")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
