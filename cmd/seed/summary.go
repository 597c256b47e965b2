package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/render"
	"github.com/urfave/cli/v2"
)

func summaryFlags() []cli.Flag {
	return []cli.Flag{
		newFileFlag(),
		&cli.StringFlag{Name: "today", Usage: "Evaluate as of this date (YYYY-MM-DD)"},
		&cli.StringSliceFlag{Name: "status", Usage: "Only these statuses"},
		&cli.StringSliceFlag{Name: "payment-type", Usage: "Only these payment types"},
		&cli.StringSliceFlag{Name: "segment", Usage: "Only these client segments"},
		&cli.StringFlag{Name: "start", Usage: "First service date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "end", Usage: "Last service date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "q", Usage: "Search term"},
		&cli.BoolFlag{Name: "json", Usage: "Print the summary as JSON"},
	}
}

func printSummary(c *cli.Context) error {
	snapshot, err := readSnapshot(c.String("file"))
	if err != nil {
		return err
	}

	now := time.Now()
	if v := c.String("today"); v != "" {
		if now, err = time.Parse(time.DateOnly, v); err != nil {
			return fmt.Errorf("invalid --today %q: %w", v, err)
		}
	}

	filter, err := summaryFilter(c)
	if err != nil {
		return err
	}

	cfg := config.Load()
	segments := analytics.NewSegments(cfg.Reporting.Segments, cfg.Reporting.DefaultSegment)
	summary := buildSummary(snapshot, filter, segments, now)

	if c.Bool("json") {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(out))
		return nil
	}

	fmt.Fprint(c.App.Writer, render.Summary(summary))
	return nil
}

func summaryFilter(c *cli.Context) (domain.FilterDescriptor, error) {
	filter := domain.FilterDescriptor{
		Segments:   c.StringSlice("segment"),
		Period:     domain.PeriodRange{Start: c.String("start"), End: c.String("end")},
		SearchTerm: c.String("q"),
		Scope:      domain.SearchScopeDashboard,
	}
	for _, v := range c.StringSlice("status") {
		status, ok := domain.ParseStatus(v)
		if !ok {
			return filter, fmt.Errorf("invalid status %q", v)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, v := range c.StringSlice("payment-type") {
		payment, ok := domain.ParsePaymentType(v)
		if !ok {
			return filter, fmt.Errorf("invalid payment type %q", v)
		}
		filter.PaymentTypes = append(filter.PaymentTypes, payment)
	}
	return filter, nil
}

func buildSummary(snapshot domain.Snapshot, filter domain.FilterDescriptor, segments analytics.Segments, now time.Time) domain.DashboardSummary {
	companies := make(map[string]domain.Company, len(snapshot.Companies))
	for _, company := range snapshot.Companies {
		companies[company.ID] = company
	}
	users := make(map[string]domain.User, len(snapshot.Users))
	for _, user := range snapshot.Users {
		users[user.ID] = user
	}

	records := analytics.NormalizeAll(snapshot.Services, companies, users, now)
	return analytics.BuildDashboard(records, filter, segments, now)
}
