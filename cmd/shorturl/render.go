package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/health"
	"github.com/serroba/shorturl-console/internal/listview"
	"github.com/serroba/shorturl-console/internal/logview"
	"github.com/serroba/shorturl-console/internal/shortener"
)

const dateLayout = "2006-01-02 15:04"

func renderList(w io.Writer, view listview.View) error {
	if view.FilteredCount == 0 {
		_, err := fmt.Fprintln(w, "No short URLs found.")

		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tCODE\tNAME\tSHORT URL\tTARGET\tCLICKS\tCREATED\tEXPIRES")

	for _, u := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			u.ID, u.Code, u.Name, u.ShortLink, u.LongURL, u.Visits,
			u.CreatedAt.Local().Format(dateLayout), expiresLabel(u))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\npage %d of %d (%d links) pages: %s\n",
		view.Page, view.TotalPages, view.FilteredCount, joinInts(view.PageNumbers))

	return err
}

func renderURL(w io.Writer, u shortener.ShortURL) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ID\t%s\n", u.ID)
	fmt.Fprintf(tw, "Code\t%s\n", u.Code)
	fmt.Fprintf(tw, "Name\t%s\n", u.Name)
	fmt.Fprintf(tw, "Short URL\t%s\n", u.ShortLink)
	fmt.Fprintf(tw, "Target\t%s\n", u.LongURL)
	fmt.Fprintf(tw, "Expires\t%s\n", expiresLabel(u))

	return tw.Flush()
}

func renderLog(w io.Writer, c *logview.Controller) error {
	entries := c.Entries()
	p := c.Pagination()

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No visits recorded.")

		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "STATUS\tVISITOR IP\tTIME\tBROWSER")

	for _, e := range entries {
		status := lo.Ternary(e.Accepted, "accepted", "rejected")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, e.VisitorIP, e.AccessedAt.Local().Format(dateLayout), e.UserAgent)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if pages := c.PageNumbers(); len(pages) > 0 {
		_, err := fmt.Fprintf(w, "\npage %d of %d (%d visits) pages: %s\n", p.Page, p.TotalPages, p.Total, joinInts(pages))

		return err
	}

	return nil
}

func renderHealth(w io.Writer, report health.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, c := range report.Components {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Status, c.Error)
	}

	fmt.Fprintf(tw, "overall\t%s\t\n", report.Status)

	return tw.Flush()
}

func expiresLabel(u shortener.ShortURL) string {
	switch {
	case u.ExpiresAt == nil:
		return "never"
	case u.IsExpired(time.Now()):
		return "expired"
	default:
		return u.ExpiresAt.Local().Format(dateLayout)
	}
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string { return fmt.Sprint(v) }), " ")
}
