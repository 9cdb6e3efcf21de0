package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/httpclient"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/request"
)

var version = "dev"

var commonFlags = []cli.Flag{
	cli.StringFlag{Name: "provider", Usage: "provider search URL (default from PROVIDER_URL)"},
	cli.DurationFlag{Name: "timeout", Value: 60 * time.Second, Usage: "request timeout"},
	cli.BoolFlag{Name: "dry-run", Usage: "print the query instead of calling the provider"},
}

var searchFlags = []cli.Flag{
	cli.StringFlag{Name: "location, l", Usage: "place to search around"},
	cli.Float64Flag{Name: "lat", Usage: "latitude"},
	cli.Float64Flag{Name: "lng", Usage: "longitude"},
	cli.StringFlag{Name: "term, t", Value: "restaurant", Usage: "search term"},
	cli.IntFlag{Name: "radius", Value: 10000, Usage: "radius in meters (max 40000)"},
	cli.StringFlag{Name: "categories", Usage: "comma-separated category aliases"},
	cli.StringFlag{Name: "price", Usage: "comma-separated price tiers 1-4"},
	cli.BoolFlag{Name: "open-now", Usage: "only places open now"},
	cli.StringFlag{Name: "sort", Value: string(filters.SortBestMatch), Usage: "best_match, rating, review_count or distance"},
	cli.IntFlag{Name: "limit", Value: 20, Usage: "results per page (max 50)"},
	cli.IntFlag{Name: "offset", Usage: "result offset"},
}

var profileFlags = []cli.Flag{
	cli.StringFlag{Name: "designation", Value: string(clientprofile.DesignationDirector), Usage: "client designation"},
	cli.StringFlag{Name: "purpose", Value: string(clientprofile.PurposeIntroduction), Usage: "meeting purpose"},
	cli.StringFlag{Name: "other-purpose", Usage: "purpose text when purpose is Other"},
	cli.StringFlag{Name: "relationship", Value: string(clientprofile.RelationshipNew), Usage: "relationship status"},
	cli.StringFlag{Name: "location, l", Usage: "meeting location"},
	cli.StringFlag{Name: "duration", Value: string(clientprofile.Duration1Hour), Usage: "meeting duration"},
	cli.StringFlag{Name: "cuisine", Usage: "cuisine preferences"},
	cli.StringFlag{Name: "dietary", Usage: "dietary restrictions"},
	cli.IntFlag{Name: "radius", Value: 10000, Usage: "radius in meters"},
}

func searchFilters(c *cli.Context) filters.SearchFilters {
	f := filters.SearchFilters{
		Location:   c.String("location"),
		Term:       c.String("term"),
		Radius:     filters.Int(c.Int("radius")),
		Categories: c.String("categories"),
		Price:      c.String("price"),
		SortBy:     filters.SortBy(c.String("sort")),
		Limit:      filters.Int(c.Int("limit")),
		Offset:     filters.Int(c.Int("offset")),
	}
	if c.IsSet("lat") && c.IsSet("lng") {
		f.Latitude = filters.Float(c.Float64("lat"))
		f.Longitude = filters.Float(c.Float64("lng"))
	}
	if c.IsSet("open-now") {
		f.OpenNow = filters.Bool(c.Bool("open-now"))
	}
	return f
}

func profile(c *cli.Context) clientprofile.Profile {
	return clientprofile.Profile{
		ClientDesignation:   clientprofile.Designation(c.String("designation")),
		MeetingPurpose:      clientprofile.Purpose(c.String("purpose")),
		OtherPurpose:        c.String("other-purpose"),
		RelationshipStatus:  clientprofile.Relationship(c.String("relationship")),
		Location:            c.String("location"),
		MeetingDuration:     clientprofile.Duration(c.String("duration")),
		CuisinePreferences:  c.String("cuisine"),
		DietaryRestrictions: c.String("dietary"),
	}
}

// run validates f, then either prints its query or searches and prints the
// normalized result.
func run(c *cli.Context, out io.Writer, f filters.SearchFilters) error {
	if err := filters.Validate(f); err != nil {
		return printValidation(out, err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if c.Bool("dry-run") {
		return enc.Encode(map[string]any{"filters": f, "query": request.Build(f).Encode()})
	}

	cfg := config.FromEnv()
	searchURL := c.String("provider")
	if searchURL == "" {
		searchURL = cfg.SearchURL()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	gw, err := gateway.New(logger, httpclient.NewOutbound(c.Duration("timeout")), searchURL, cfg.ProviderAPIKey)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	res, err := gw.Search(ctx, request.Build(f))
	if err != nil {
		return cli.NewExitError(gateway.Message(err), 2)
	}
	return enc.Encode(res)
}

func printValidation(out io.Writer, err error) error {
	var verrs filters.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		_, _ = fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message)
	}
	return cli.NewExitError("invalid search parameters", 1)
}

func searchAction(c *cli.Context) error {
	return run(c, os.Stdout, searchFilters(c))
}

func profileAction(c *cli.Context) error {
	p := profile(c)
	if err := clientprofile.Validate(p); err != nil {
		return printValidation(os.Stdout, err)
	}
	f, err := (&clientprofile.Rules{Radius: c.Int("radius")}).Translate(context.Background(), p)
	if err != nil {
		return err
	}
	return run(c, os.Stdout, filters.WithDefaults(f))
}

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "searchctl"
	app.Usage = "run restaurant searches against the provider"
	app.Version = version
	app.Commands = []cli.Command{
		{
			Name:   "search",
			Usage:  "search with explicit filters",
			Flags:  append(append([]cli.Flag{}, commonFlags...), searchFlags...),
			Action: searchAction,
		},
		{
			Name:  "profile",
			Usage: "translate a client profile into filters and search",
			Flags:  append(append([]cli.Flag{}, commonFlags...), profileFlags...),
			Action: profileAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
