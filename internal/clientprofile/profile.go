// Package clientprofile handles the client-meeting intake form and turns a
// profile into search filters.
package clientprofile

import (
	"strings"
	"unicode/utf8"

	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

type Designation string

const (
	DesignationCSuite     Designation = "C-Suite"
	DesignationVP         Designation = "SVP/VP Level"
	DesignationDirector   Designation = "Director/Manager"
	DesignationTechnical  Designation = "Technical/Specialist"
	DesignationMixedGroup Designation = "Mixed"
)

type Purpose string

const (
	PurposeIntroduction Purpose = "Introduction"
	PurposeCheckIn      Purpose = "Check-in"
	PurposeMilestone    Purpose = "Milestone"
	PurposeNegotiation  Purpose = "Negotiation"
	PurposeCelebration  Purpose = "Celebration"
	PurposeOther        Purpose = "Other"
)

type Duration string

const (
	Duration30Min   Duration = "30min"
	Duration1Hour   Duration = "1hour"
	Duration90Min   Duration = "1.5hours"
	Duration2Hours  Duration = "2hours"
	Duration150Plus Duration = "2.5hours+"
)

type Relationship string

const (
	RelationshipNew          Relationship = "New"
	RelationshipExistingNew  Relationship = "Existing-New"
	RelationshipExistingLong Relationship = "Existing-Long"
)

var designations = []filters.Option{
	{Value: string(DesignationCSuite), Label: "C-Suite (CEO, CFO, CTO, etc.)"},
	{Value: string(DesignationVP), Label: "SVP/VP Level"},
	{Value: string(DesignationDirector), Label: "Director/Manager"},
	{Value: string(DesignationTechnical), Label: "Technical/Specialist"},
	{Value: string(DesignationMixedGroup), Label: "Mixed group"},
}

var purposes = []filters.Option{
	{Value: string(PurposeIntroduction), Label: "First Introduction"},
	{Value: string(PurposeCheckIn), Label: "Regular Check-in"},
	{Value: string(PurposeMilestone), Label: "Project Milestone"},
	{Value: string(PurposeNegotiation), Label: "Contract Negotiation"},
	{Value: string(PurposeCelebration), Label: "Celebration"},
	{Value: string(PurposeOther), Label: "Other"},
}

var durations = []filters.Option{
	{Value: string(Duration30Min), Label: "30 minutes"},
	{Value: string(Duration1Hour), Label: "1 hour"},
	{Value: string(Duration90Min), Label: "1.5 hours"},
	{Value: string(Duration2Hours), Label: "2 hours"},
	{Value: string(Duration150Plus), Label: "2.5+ hours"},
}

var relationships = []filters.Option{
	{Value: string(RelationshipNew), Label: "New prospect"},
	{Value: string(RelationshipExistingNew), Label: "Existing client (less than 1 year)"},
	{Value: string(RelationshipExistingLong), Label: "Long-term client (1+ years)"},
}

func DesignationOptions() []filters.Option  { return append([]filters.Option(nil), designations...) }
func PurposeOptions() []filters.Option      { return append([]filters.Option(nil), purposes...) }
func DurationOptions() []filters.Option     { return append([]filters.Option(nil), durations...) }
func RelationshipOptions() []filters.Option { return append([]filters.Option(nil), relationships...) }

func label(opts []filters.Option, v string) (string, bool) {
	for _, o := range opts {
		if o.Value == v {
			return o.Label, true
		}
	}
	return "", false
}

func (d Designation) Valid() bool {
	_, ok := label(designations, string(d))
	return ok
}

func (p Purpose) Valid() bool {
	_, ok := label(purposes, string(p))
	return ok
}

func (d Duration) Valid() bool {
	_, ok := label(durations, string(d))
	return ok
}

func (r Relationship) Valid() bool {
	_, ok := label(relationships, string(r))
	return ok
}

// Label returns the form text for d, "" when unknown. The other enums follow
// the same rule.
func (d Designation) Label() string {
	l, _ := label(designations, string(d))
	return l
}

func (p Purpose) Label() string {
	l, _ := label(purposes, string(p))
	return l
}

func (d Duration) Label() string {
	l, _ := label(durations, string(d))
	return l
}

func (r Relationship) Label() string {
	l, _ := label(relationships, string(r))
	return l
}

// Profile is one submission of the client-meeting form.
type Profile struct {
	ClientDesignation   Designation  `json:"clientDesignation"`
	MeetingPurpose      Purpose      `json:"meetingPurpose"`
	OtherPurpose        string       `json:"otherPurpose,omitempty"`
	RelationshipStatus  Relationship `json:"relationshipStatus"`
	Location            string       `json:"location"`
	MeetingDuration     Duration     `json:"meetingDuration"`
	DietaryRestrictions string       `json:"dietaryRestrictions,omitempty"`
	AdditionalNotes     string       `json:"additionalNotes,omitempty"`
	CuisinePreferences  string       `json:"cuisinePreferences,omitempty"`
}

const (
	MsgDesignation  = "Please select the client's designation"
	MsgPurpose      = "Please select the purpose of the meeting"
	MsgOtherPurpose = "Please specify the other meeting purpose"
	MsgRelationship = "Please select the relationship status"
	MsgLocation     = "Please enter a location"
	MsgLocationLen  = "Location must be at least 2 characters long"
	MsgDuration     = "Please select meeting duration"
)

// Validate returns filters.ValidationErrors keyed by the form's field names,
// or nil.
func Validate(p Profile) error {
	var errs filters.ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, filters.FieldError{Field: field, Message: msg})
	}

	if !p.ClientDesignation.Valid() {
		add("clientDesignation", MsgDesignation)
	}
	if !p.MeetingPurpose.Valid() {
		add("meetingPurpose", MsgPurpose)
	}
	if p.MeetingPurpose == PurposeOther && strings.TrimSpace(p.OtherPurpose) == "" {
		add("otherPurpose", MsgOtherPurpose)
	}
	if !p.RelationshipStatus.Valid() {
		add("relationshipStatus", MsgRelationship)
	}
	switch loc := strings.TrimSpace(p.Location); {
	case loc == "":
		add("location", MsgLocation)
	case utf8.RuneCountInString(loc) < 2:
		add("location", MsgLocationLen)
	}
	if !p.MeetingDuration.Valid() {
		add("meetingDuration", MsgDuration)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
