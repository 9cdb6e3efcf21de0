package clientprofile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

func validProfile() Profile {
	return Profile{
		ClientDesignation:  DesignationDirector,
		MeetingPurpose:     PurposeCheckIn,
		RelationshipStatus: RelationshipExistingNew,
		Location:           "Toronto",
		MeetingDuration:    Duration1Hour,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs filters.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("err=%v want ValidationErrors", err)
	}
	return verrs.Fields()
}

func TestValidate_OtherPurposeRequired(t *testing.T) {
	p := validProfile()
	p.MeetingPurpose = PurposeOther
	p.OtherPurpose = "   "

	fe := fieldsOf(t, Validate(p))
	if fe["otherPurpose"] != MsgOtherPurpose {
		t.Fatalf("fields=%v", fe)
	}
	if len(fe) != 1 {
		t.Fatalf("only otherPurpose should fail, got %v", fe)
	}

	p.OtherPurpose = "Site visit"
	if err := Validate(p); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	fe := fieldsOf(t, Validate(Profile{Location: "X"}))
	want := map[string]string{
		"clientDesignation":  MsgDesignation,
		"meetingPurpose":     MsgPurpose,
		"relationshipStatus": MsgRelationship,
		"location":           MsgLocationLen,
		"meetingDuration":    MsgDuration,
	}
	for k, v := range want {
		if fe[k] != v {
			t.Fatalf("%s=%q want %q", k, fe[k], v)
		}
	}
	if _, ok := fe["otherPurpose"]; ok {
		t.Fatal("otherPurpose only required for Other")
	}

	fe = fieldsOf(t, Validate(Profile{}))
	if fe["location"] != MsgLocation {
		t.Fatalf("location=%q", fe["location"])
	}
}

func TestEnumLabels(t *testing.T) {
	if DesignationCSuite.Label() != "C-Suite (CEO, CFO, CTO, etc.)" {
		t.Fatalf("label=%q", DesignationCSuite.Label())
	}
	if RelationshipExistingLong.Label() != "Long-term client (1+ years)" {
		t.Fatalf("label=%q", RelationshipExistingLong.Label())
	}
	if Purpose("Lunch").Valid() || Purpose("Lunch").Label() != "" {
		t.Fatal("unknown purpose should be invalid with no label")
	}
	if len(DurationOptions()) != 5 || len(PurposeOptions()) != 6 {
		t.Fatal("option lists incomplete")
	}
}

func TestRules_Translate(t *testing.T) {
	r := &Rules{Radius: 5000}

	p := validProfile()
	p.CuisinePreferences = "Italian, Japanese and Thai"
	p.DietaryRestrictions = "one vegetarian, gluten-free"
	f, err := r.Translate(context.Background(), p)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if f.Location != "Toronto" || f.Term != "casual restaurant" || f.Price != "1,2" {
		t.Fatalf("filters=%+v", f)
	}
	if f.Categories != "italian,japanese,thai,vegetarian,gluten_free" {
		t.Fatalf("categories=%q", f.Categories)
	}
	if f.Radius == nil || *f.Radius != 5000 {
		t.Fatalf("radius=%v", f.Radius)
	}
	if err := filters.Validate(f); err != nil {
		t.Fatalf("translated filters invalid: %v", err)
	}
}

func TestRules_SeniorityRaisesPrice(t *testing.T) {
	r := &Rules{}
	cases := []struct {
		designation  Designation
		relationship Relationship
		purpose      Purpose
		want         string
	}{
		{DesignationTechnical, RelationshipNew, PurposeIntroduction, "1,2"},
		{DesignationCSuite, RelationshipNew, PurposeIntroduction, "2,3"},
		{DesignationCSuite, RelationshipExistingLong, PurposeIntroduction, "3,4"},
		{DesignationCSuite, RelationshipExistingLong, PurposeCelebration, "3,4"},
		{DesignationDirector, RelationshipExistingLong, PurposeMilestone, "3,4"},
	}
	for _, tc := range cases {
		p := validProfile()
		p.ClientDesignation, p.RelationshipStatus, p.MeetingPurpose = tc.designation, tc.relationship, tc.purpose
		f, _ := r.Translate(context.Background(), p)
		if f.Price != tc.want {
			t.Fatalf("%s/%s/%s price=%q want %q", tc.designation, tc.relationship, tc.purpose, f.Price, tc.want)
		}
	}
}

func TestRules_OtherPurposeTerm(t *testing.T) {
	p := validProfile()
	p.MeetingPurpose, p.OtherPurpose = PurposeOther, "Board dinner"
	f, _ := (&Rules{}).Translate(context.Background(), p)
	if f.Term != "Board dinner restaurant" {
		t.Fatalf("term=%q", f.Term)
	}
}

func TestRemote_Translate(t *testing.T) {
	var got Profile
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/client_profile" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"location":"Toronto, ON","term":"steakhouse","categories":["steak","seafood"],"price":"3, 4"}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw, err := gateway.New(logger, srv.Client(), srv.URL+"/api/restaurants", "")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{ProfileServiceURL: srv.URL + "/api"}
	tr, err := New("remote", cfg, logger, gw)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f, err := tr.Translate(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Location != "Toronto" || got.MeetingPurpose != PurposeCheckIn {
		t.Fatalf("profile not forwarded: %+v", got)
	}
	if f.Location != "Toronto, ON" || f.Term != "steakhouse" || f.Categories != "steak,seafood" || f.Price != "3,4" {
		t.Fatalf("filters=%+v", f)
	}
}

func TestRemote_StringCategories(t *testing.T) {
	var out remoteParams
	if err := json.Unmarshal([]byte(`{"categories":"sushi,ramen"}`), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Categories) != 2 || out.Categories[1] != "ramen" {
		t.Fatalf("categories=%v", out.Categories)
	}
}

func TestRemote_RequiresURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New("remote", config.Config{}, logger, nil); err == nil {
		t.Fatal("expected error without PROFILE_SERVICE_URL")
	}
}

func TestRegistry_FallbackToRules(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr, err := New("totally-unknown", config.Config{}, logger, nil)
	if err != nil {
		t.Fatalf("expected fallback to rules, got err=%v", err)
	}
	if _, ok := tr.(*Rules); !ok {
		t.Fatalf("translator=%T want *Rules", tr)
	}
	if names := Names(); len(names) != 2 || names[0] != "remote" || names[1] != "rules" {
		t.Fatalf("names=%v", names)
	}
}
