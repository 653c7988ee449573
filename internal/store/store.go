// Package store owns the authoritative in-memory record collections and
// their uniqueness and referential invariants. A Store is not safe for
// concurrent use: the serving loop is strictly sequential and holds the
// only reference for the process lifetime.
package store

import (
	"errors"
	"fmt"
	"sort"

	"kindred/internal/gedcom"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("identifier already exists")
	ErrInvalidInput = errors.New("invalid record")
)

type Store struct {
	individuals     map[string]gedcom.Individual
	families        map[string]gedcom.Family
	individualOrder []string
	familyOrder     []string

	// Derived relation indexes, individual id -> set of family ids.
	// Maintained on family insert so they can never drift from the
	// families that define them.
	spouseIn map[string]map[string]struct{}
	childIn  map[string]map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

// FromData builds a store from a parsed or snapshotted record collection,
// preserving source order. Bulk data may carry references to individuals
// that were never defined (common in partial GEDCOM exports); those are
// tolerated here, unlike runtime creates. Records repeating an already
// seen identifier are dropped, first occurrence wins.
func FromData(data *gedcom.Data) *Store {
	s := New()
	s.Load(data)
	return s
}

func (s *Store) reset() {
	s.individuals = make(map[string]gedcom.Individual)
	s.families = make(map[string]gedcom.Family)
	s.individualOrder = nil
	s.familyOrder = nil
	s.spouseIn = make(map[string]map[string]struct{})
	s.childIn = make(map[string]map[string]struct{})
}

// Load replaces the full store state. Used by snapshot restore and bulk
// GEDCOM ingestion only.
func (s *Store) Load(data *gedcom.Data) {
	s.reset()
	if data == nil {
		return
	}
	for _, individual := range data.Individuals {
		if _, exists := s.individuals[individual.ID]; exists {
			continue
		}
		s.insertIndividual(individual)
	}
	for _, family := range data.Families {
		if _, exists := s.families[family.ID]; exists {
			continue
		}
		s.insertFamily(family)
	}
}

// Export returns a deep copy of the full store state in insertion order.
// Derived relation sets are omitted; they are rebuilt on load.
func (s *Store) Export() *gedcom.Data {
	data := &gedcom.Data{
		Individuals: make([]gedcom.Individual, 0, len(s.individualOrder)),
		Families:    make([]gedcom.Family, 0, len(s.familyOrder)),
	}
	for _, id := range s.individualOrder {
		data.Individuals = append(data.Individuals, copyIndividual(s.individuals[id]))
	}
	for _, id := range s.familyOrder {
		data.Families = append(data.Families, copyFamily(s.families[id]))
	}
	return data
}

// GetIndividual returns the individual with the given id, with its derived
// spouse-in and child-in sets filled.
func (s *Store) GetIndividual(id string) (gedcom.Individual, error) {
	individual, ok := s.individuals[id]
	if !ok {
		return gedcom.Individual{}, fmt.Errorf("individual %s: %w", id, ErrNotFound)
	}
	return s.withRelations(individual), nil
}

// GetFamily returns the family with the given id.
func (s *Store) GetFamily(id string) (gedcom.Family, error) {
	family, ok := s.families[id]
	if !ok {
		return gedcom.Family{}, fmt.Errorf("family %s: %w", id, ErrNotFound)
	}
	return copyFamily(family), nil
}

// ListIndividuals returns all individuals in insertion order.
func (s *Store) ListIndividuals() []gedcom.Individual {
	out := make([]gedcom.Individual, 0, len(s.individualOrder))
	for _, id := range s.individualOrder {
		out = append(out, s.withRelations(s.individuals[id]))
	}
	return out
}

// ListFamilies returns all families in insertion order.
func (s *Store) ListFamilies() []gedcom.Family {
	out := make([]gedcom.Family, 0, len(s.familyOrder))
	for _, id := range s.familyOrder {
		out = append(out, copyFamily(s.families[id]))
	}
	return out
}

// CreateIndividual validates and inserts a new individual. Validation
// order is fixed: structural, then uniqueness, then apply, so the error
// for a given bad candidate is deterministic. The insert is atomic;
// a rejected candidate leaves the store untouched.
func (s *Store) CreateIndividual(candidate gedcom.Individual) (gedcom.Individual, error) {
	if !gedcom.ValidID(candidate.ID) {
		return gedcom.Individual{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if !candidate.HasName() {
		return gedcom.Individual{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, exists := s.individuals[candidate.ID]; exists {
		return gedcom.Individual{}, fmt.Errorf("individual %s: %w", candidate.ID, ErrConflict)
	}

	// Derived sets are never accepted as input.
	candidate.SpouseIn = nil
	candidate.ChildIn = nil
	s.insertIndividual(candidate)
	return s.withRelations(s.individuals[candidate.ID]), nil
}

// CreateFamily validates and inserts a new family. Every referenced
// individual must already exist; validation order is structural, then
// referential, then uniqueness, then apply.
func (s *Store) CreateFamily(candidate gedcom.Family) (gedcom.Family, error) {
	if !gedcom.ValidID(candidate.ID) {
		return gedcom.Family{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(candidate.Children))
	for _, child := range candidate.Children {
		if _, dup := seen[child]; dup {
			return gedcom.Family{}, fmt.Errorf("%w: duplicate child %s", ErrInvalidInput, child)
		}
		seen[child] = struct{}{}
	}

	for _, ref := range familyReferences(candidate) {
		if _, ok := s.individuals[ref]; !ok {
			return gedcom.Family{}, fmt.Errorf("%w: unknown individual %s", ErrInvalidInput, ref)
		}
	}

	if _, exists := s.families[candidate.ID]; exists {
		return gedcom.Family{}, fmt.Errorf("family %s: %w", candidate.ID, ErrConflict)
	}

	s.insertFamily(candidate)
	return copyFamily(s.families[candidate.ID]), nil
}

func (s *Store) insertIndividual(individual gedcom.Individual) {
	individual.SpouseIn = nil
	individual.ChildIn = nil
	s.individuals[individual.ID] = copyIndividual(individual)
	s.individualOrder = append(s.individualOrder, individual.ID)
}

func (s *Store) insertFamily(family gedcom.Family) {
	if family.Children == nil {
		family.Children = []string{}
	}
	s.families[family.ID] = copyFamily(family)
	s.familyOrder = append(s.familyOrder, family.ID)

	for _, spouse := range []string{family.HusbandID, family.WifeID} {
		if spouse == "" {
			continue
		}
		if s.spouseIn[spouse] == nil {
			s.spouseIn[spouse] = make(map[string]struct{})
		}
		s.spouseIn[spouse][family.ID] = struct{}{}
	}
	for _, child := range family.Children {
		if s.childIn[child] == nil {
			s.childIn[child] = make(map[string]struct{})
		}
		s.childIn[child][family.ID] = struct{}{}
	}
}

// withRelations fills the derived spouse-in and child-in sets on a copy of
// the stored individual. Sets are emitted sorted so equal stores always
// serialize identically.
func (s *Store) withRelations(individual gedcom.Individual) gedcom.Individual {
	out := copyIndividual(individual)
	out.SpouseIn = sortedKeys(s.spouseIn[individual.ID])
	out.ChildIn = sortedKeys(s.childIn[individual.ID])
	return out
}

func familyReferences(family gedcom.Family) []string {
	refs := make([]string, 0, len(family.Children)+2)
	if family.HusbandID != "" {
		refs = append(refs, family.HusbandID)
	}
	if family.WifeID != "" {
		refs = append(refs, family.WifeID)
	}
	return append(refs, family.Children...)
}

func copyIndividual(individual gedcom.Individual) gedcom.Individual {
	out := individual
	if individual.Birth != nil {
		birth := *individual.Birth
		out.Birth = &birth
	}
	if individual.Death != nil {
		death := *individual.Death
		out.Death = &death
	}
	if individual.SpouseIn != nil {
		out.SpouseIn = append([]string{}, individual.SpouseIn...)
	}
	if individual.ChildIn != nil {
		out.ChildIn = append([]string{}, individual.ChildIn...)
	}
	return out
}

func copyFamily(family gedcom.Family) gedcom.Family {
	out := family
	out.Children = append([]string{}, family.Children...)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
