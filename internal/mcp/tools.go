package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"kindred/internal/gedcom"
)

type GetIndividualInput struct {
	ID string `json:"id" jsonschema:"individual identifier"`
}

type GetFamilyInput struct {
	ID string `json:"id" jsonschema:"family identifier"`
}

type ListIndividualsInput struct{}

type ListFamiliesInput struct{}

type EventInput struct {
	Date  string `json:"date,omitempty" jsonschema:"free-form event date"`
	Place string `json:"place,omitempty" jsonschema:"free-form event place"`
}

type CreateIndividualInput struct {
	ID    string      `json:"id" jsonschema:"new individual identifier"`
	Name  string      `json:"name" jsonschema:"individual name"`
	Birth *EventInput `json:"birth,omitempty" jsonschema:"birth event"`
	Death *EventInput `json:"death,omitempty" jsonschema:"death event"`
}

type CreateFamilyInput struct {
	ID        string   `json:"id" jsonschema:"new family identifier"`
	HusbandID string   `json:"husband_id,omitempty" jsonschema:"existing individual identifier"`
	WifeID    string   `json:"wife_id,omitempty" jsonschema:"existing individual identifier"`
	Children  []string `json:"children,omitempty" jsonschema:"existing individual identifiers in birth order"`
}

type EventOutput struct {
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

type IndividualOutput struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Birth    *EventOutput `json:"birth,omitempty"`
	Death    *EventOutput `json:"death,omitempty"`
	SpouseIn []string     `json:"spouse_in"`
	ChildIn  []string     `json:"child_in"`
}

type FamilyOutput struct {
	ID        string   `json:"id"`
	HusbandID string   `json:"husband_id,omitempty"`
	WifeID    string   `json:"wife_id,omitempty"`
	Children  []string `json:"children"`
}

type ListIndividualsOutput struct {
	Individuals []IndividualOutput `json:"individuals"`
}

type ListFamiliesOutput struct {
	Families []FamilyOutput `json:"families"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_individual",
		Description: "Retrieve an individual and its family relations",
	}, s.handleGetIndividual)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_family",
		Description: "Retrieve a family record",
	}, s.handleGetFamily)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_individuals",
		Description: "List all individuals in insertion order",
	}, s.handleListIndividuals)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_families",
		Description: "List all families in insertion order",
	}, s.handleListFamilies)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_individual",
		Description: "Create a new individual record",
	}, s.handleCreateIndividual)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_family",
		Description: "Create a new family linking existing individuals",
	}, s.handleCreateFamily)
}

func (s *Server) handleGetIndividual(ctx context.Context, req *sdk.CallToolRequest, input GetIndividualInput) (*sdk.CallToolResult, IndividualOutput, error) {
	if input.ID == "" {
		return nil, IndividualOutput{}, fmt.Errorf("id is required")
	}
	individual, err := s.store.GetIndividual(input.ID)
	if err != nil {
		return nil, IndividualOutput{}, err
	}
	return nil, individualOutputFromRecord(individual), nil
}

func (s *Server) handleGetFamily(ctx context.Context, req *sdk.CallToolRequest, input GetFamilyInput) (*sdk.CallToolResult, FamilyOutput, error) {
	if input.ID == "" {
		return nil, FamilyOutput{}, fmt.Errorf("id is required")
	}
	family, err := s.store.GetFamily(input.ID)
	if err != nil {
		return nil, FamilyOutput{}, err
	}
	return nil, familyOutputFromRecord(family), nil
}

func (s *Server) handleListIndividuals(ctx context.Context, req *sdk.CallToolRequest, input ListIndividualsInput) (*sdk.CallToolResult, ListIndividualsOutput, error) {
	individuals := s.store.ListIndividuals()
	output := make([]IndividualOutput, 0, len(individuals))
	for _, individual := range individuals {
		output = append(output, individualOutputFromRecord(individual))
	}
	return nil, ListIndividualsOutput{Individuals: output}, nil
}

func (s *Server) handleListFamilies(ctx context.Context, req *sdk.CallToolRequest, input ListFamiliesInput) (*sdk.CallToolResult, ListFamiliesOutput, error) {
	families := s.store.ListFamilies()
	output := make([]FamilyOutput, 0, len(families))
	for _, family := range families {
		output = append(output, familyOutputFromRecord(family))
	}
	return nil, ListFamiliesOutput{Families: output}, nil
}

func (s *Server) handleCreateIndividual(ctx context.Context, req *sdk.CallToolRequest, input CreateIndividualInput) (*sdk.CallToolResult, IndividualOutput, error) {
	created, err := s.store.CreateIndividual(gedcom.Individual{
		ID:    input.ID,
		Name:  input.Name,
		Birth: eventFromInput(input.Birth),
		Death: eventFromInput(input.Death),
	})
	if err != nil {
		return nil, IndividualOutput{}, err
	}
	if err := s.saveAfterMutation(); err != nil {
		return nil, IndividualOutput{}, err
	}
	return nil, individualOutputFromRecord(created), nil
}

func (s *Server) handleCreateFamily(ctx context.Context, req *sdk.CallToolRequest, input CreateFamilyInput) (*sdk.CallToolResult, FamilyOutput, error) {
	created, err := s.store.CreateFamily(gedcom.Family{
		ID:        input.ID,
		HusbandID: input.HusbandID,
		WifeID:    input.WifeID,
		Children:  input.Children,
	})
	if err != nil {
		return nil, FamilyOutput{}, err
	}
	if err := s.saveAfterMutation(); err != nil {
		return nil, FamilyOutput{}, err
	}
	return nil, familyOutputFromRecord(created), nil
}

// saveAfterMutation persists the full state synchronously. The in-memory
// mutation already applied, so the error message names the durability gap
// rather than implying a rollback.
func (s *Server) saveAfterMutation() error {
	if s.snaps == nil {
		return nil
	}
	if err := s.snaps.Save(s.store.Export()); err != nil {
		return fmt.Errorf("record created but not persisted: %w", err)
	}
	return nil
}

func eventFromInput(input *EventInput) *gedcom.Event {
	if input == nil || (input.Date == "" && input.Place == "") {
		return nil
	}
	return &gedcom.Event{Date: input.Date, Place: input.Place}
}

func eventOutputFromRecord(event *gedcom.Event) *EventOutput {
	if event == nil {
		return nil
	}
	return &EventOutput{Date: event.Date, Place: event.Place}
}

func individualOutputFromRecord(individual gedcom.Individual) IndividualOutput {
	return IndividualOutput{
		ID:       individual.ID,
		Name:     individual.Name,
		Birth:    eventOutputFromRecord(individual.Birth),
		Death:    eventOutputFromRecord(individual.Death),
		SpouseIn: append([]string{}, individual.SpouseIn...),
		ChildIn:  append([]string{}, individual.ChildIn...),
	}
}

func familyOutputFromRecord(family gedcom.Family) FamilyOutput {
	return FamilyOutput{
		ID:        family.ID,
		HusbandID: family.HusbandID,
		WifeID:    family.WifeID,
		Children:  append([]string{}, family.Children...),
	}
}
