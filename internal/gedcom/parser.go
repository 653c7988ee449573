package gedcom

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrInvalidLevel = errors.New("malformed level number")
	ErrMissingTag   = errors.New("missing tag")
	ErrMissingID    = errors.New("record missing identifier")
	ErrOrphanTag    = errors.New("tag outside a governing record")
)

// ParseError reports a hard parse failure with the offending line and tag.
// Unrecognized tags never produce one; only structural damage does, so a
// truncated or corrupt file can never silently load as a partial genealogy.
type ParseError struct {
	Line int
	Tag  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Tag, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type recordContext int

const (
	inNothing recordContext = iota
	inIndividual
	inFamily
)

type eventContext int

const (
	noEvent eventContext = iota
	inBirth
	inDeath
	// inDiscardedEvent marks a duplicate birth/death block: the first
	// occurrence wins, so sub-lines of later blocks are consumed silently.
	inDiscardedEvent
)

// ParseFile reads and parses a GEDCOM file.
func ParseFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(raw))
}

// Parse converts GEDCOM source text into a record collection, or a
// *ParseError identifying the offending line. Recognized tags are INDI,
// FAM, NAME, BIRT, DEAT, HUSB, WIFE, CHIL, DATE and PLAC; everything else
// is skipped for forward compatibility.
func Parse(input string) (*Data, error) {
	data := &Data{
		Individuals: []Individual{},
		Families:    []Family{},
	}

	context := inNothing
	event := noEvent

	for idx, rawLine := range strings.Split(input, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		level, xref, tag, value, err := splitLine(line, lineNo)
		if err != nil {
			return nil, err
		}

		orphan := func() error {
			return &ParseError{Line: lineNo, Tag: tag, Err: ErrOrphanTag}
		}
		current := func() *Individual {
			return &data.Individuals[len(data.Individuals)-1]
		}
		currentFamily := func() *Family {
			return &data.Families[len(data.Families)-1]
		}

		switch {
		case level == 0 && tag == "INDI":
			if xref == "" {
				return nil, &ParseError{Line: lineNo, Tag: tag, Err: ErrMissingID}
			}
			data.Individuals = append(data.Individuals, Individual{ID: xref})
			context = inIndividual
			event = noEvent
		case level == 0 && tag == "FAM":
			if xref == "" {
				return nil, &ParseError{Line: lineNo, Tag: tag, Err: ErrMissingID}
			}
			data.Families = append(data.Families, Family{ID: xref, Children: []string{}})
			context = inFamily
			event = noEvent
		case level == 1 && tag == "NAME":
			if context != inIndividual {
				return nil, orphan()
			}
			name := value
			if strings.TrimSpace(name) == "" {
				name = ""
			}
			current().Name = name
			event = noEvent
		case level == 1 && tag == "BIRT":
			if context != inIndividual {
				return nil, orphan()
			}
			if current().Birth != nil {
				event = inDiscardedEvent
			} else {
				current().Birth = &Event{}
				event = inBirth
			}
		case level == 1 && tag == "DEAT":
			if context != inIndividual {
				return nil, orphan()
			}
			if current().Death != nil {
				event = inDiscardedEvent
			} else {
				current().Death = &Event{}
				event = inDeath
			}
		case level == 1 && tag == "HUSB":
			if context != inFamily {
				return nil, orphan()
			}
			currentFamily().HusbandID = strings.Trim(value, "@")
		case level == 1 && tag == "WIFE":
			if context != inFamily {
				return nil, orphan()
			}
			currentFamily().WifeID = strings.Trim(value, "@")
		case level == 1 && tag == "CHIL":
			if context != inFamily {
				return nil, orphan()
			}
			child := strings.Trim(value, "@")
			fam := currentFamily()
			if !containsString(fam.Children, child) {
				fam.Children = append(fam.Children, child)
			}
		case level == 2 && (tag == "DATE" || tag == "PLAC"):
			if event == inDiscardedEvent {
				continue
			}
			var target *Event
			switch {
			case context == inIndividual && event == inBirth:
				target = current().Birth
			case context == inIndividual && event == inDeath:
				target = current().Death
			default:
				return nil, orphan()
			}
			if tag == "DATE" {
				target.Date = value
			} else {
				target.Place = value
			}
		default:
			// Unrecognized tag or level: skip it.
		}
	}

	return data, nil
}

// splitLine tokenizes one GEDCOM line into level, optional @xref@, tag and
// the remaining value text.
func splitLine(line string, lineNo int) (level int, xref, tag, value string, err error) {
	parts := strings.SplitN(line, " ", 3)

	level, convErr := strconv.Atoi(parts[0])
	if convErr != nil || level < 0 {
		return 0, "", "", "", &ParseError{Line: lineNo, Err: ErrInvalidLevel}
	}
	if len(parts) < 2 {
		return 0, "", "", "", &ParseError{Line: lineNo, Err: ErrMissingTag}
	}

	second := parts[1]
	rest := ""
	if len(parts) == 3 {
		rest = parts[2]
	}

	// GEDCOM allows an optional @id@ token between the level and the tag.
	if len(second) > 1 && strings.HasPrefix(second, "@") && strings.HasSuffix(second, "@") {
		xref = strings.Trim(second, "@")
		tagParts := strings.SplitN(rest, " ", 2)
		if tagParts[0] == "" {
			return 0, "", "", "", &ParseError{Line: lineNo, Err: ErrMissingTag}
		}
		tag = tagParts[0]
		if len(tagParts) == 2 {
			value = strings.TrimSpace(tagParts[1])
		}
		return level, xref, tag, value, nil
	}

	return level, "", second, strings.TrimSpace(rest), nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
