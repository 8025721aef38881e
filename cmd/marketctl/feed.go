package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/generator"
)

type feedOptions struct {
	criteria feed.Criteria
	sort     string
	columns  int
	reveal   int

	size int
	seed uint64
	now  string

	addr  string
	token string
}

func newFeedCmd() *cobra.Command {
	var o feedOptions
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print a feed page",
		Long: `Print the visible window of the listing feed. Without --addr the feed is
evaluated over a generated catalog; with --addr it is queried from a running
market service and --reveal pages are requested one after another.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.criteria.Sort = feed.ParseSortKey(o.sort)
			if o.addr != "" {
				return runRemoteFeed(cmd.Context(), cmd.OutOrStdout(), o)
			}
			return runLocalFeed(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.criteria.SearchText, "search", "q", "", "search text")
	f.StringVar(&o.criteria.Category, "category", feed.All, "category or all")
	f.StringVar(&o.criteria.TLD, "tld", feed.All, "tld without the dot, or all")
	f.BoolVar(&o.criteria.ShowRestricted, "show-restricted", false, "include restricted content")
	f.BoolVar(&o.criteria.GroupsOnly, "groups-only", false, "only grouped listings")
	f.BoolVar(&o.criteria.Advanced.HasWebsite, "has-website", false, "only listings with a website")
	f.BoolVar(&o.criteria.Advanced.HasLogo, "has-logo", false, "only listings with a logo")
	f.BoolVar(&o.criteria.Advanced.HasSocialMedia, "has-social", false, "only listings with social accounts")
	f.BoolVar(&o.criteria.Advanced.HasBusinessAssets, "has-business", false, "only listings with business assets")
	f.BoolVar(&o.criteria.Advanced.HasVariants, "has-variants", false, "only listings with variants")
	f.StringVar(&o.sort, "sort", string(feed.SortNewest), "newest, oldest, price-low, price-high, offers-low, offers-high, popular")
	f.IntVar(&o.columns, "columns", 1, "grid column count")
	f.IntVar(&o.reveal, "reveal", 1, "number of pages revealed")
	f.IntVar(&o.size, "size", 1000, "generated catalog size")
	f.Uint64Var(&o.seed, "seed", 1, "generator seed")
	f.StringVar(&o.now, "now", "", "RFC 3339 reference time for generated data (default: current time)")
	f.StringVar(&o.addr, "addr", "", "market service address, e.g. localhost:50052")
	f.StringVar(&o.token, "token", "", "bearer token sent to the market service")
	return cmd
}

func runLocalFeed(out io.Writer, o feedOptions) error {
	now := time.Now().UTC()
	if o.now != "" {
		t, err := time.Parse(time.RFC3339, o.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = t
	}
	source := generator.Generate(o.size, o.seed, generator.DefaultOptions(now))
	res := feed.Apply(source, feed.Params{
		Criteria:    o.criteria,
		PageSize:    feed.PageSizeFor(o.columns),
		RevealCount: o.reveal,
	})

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tCATEGORY\tPRICE\tTYPE\tOFFERS\tVIEWS\tPROMOTED")
	for _, l := range res.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%t\n",
			l.ID, l.Domain, l.Category, price(l.Price), l.PriceType, l.Offers, l.Views, l.IsPromoted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	summary(out, len(res.Items), res.Total, res.PageSize, res.RevealCount, res.HasMore)
	return nil
}

func runRemoteFeed(ctx context.Context, out io.Writer, o feedOptions) error {
	conn, err := grpc.NewClient(o.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()
	client := marketpb.NewClient(conn)

	if o.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+o.token)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	page, err := client.QueryFeed(ctx, &marketpb.QueryFeedRequest{Criteria: o.criteria, Columns: o.columns})
	if err != nil {
		return err
	}
	for page.HasMore && page.RevealCount < o.reveal {
		page, err = client.RevealMore(ctx, &marketpb.RevealMoreRequest{
			SessionID: page.SessionID,
			Seen:      page.RevealCount,
			Columns:   o.columns,
		})
		if err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tCATEGORY\tPRICE\tTYPE\tOFFERS\tVIEWS\tPROMOTED")
	for _, l := range page.Items {
		p := "hidden"
		if l.Price != nil {
			p = price(*l.Price)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%t\n",
			l.ID, l.Domain, l.Category, p, l.PriceType, l.Offers, l.Views, l.IsPromoted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "session %s\n", page.SessionID)
	summary(out, len(page.Items), page.Total, page.PageSize, page.RevealCount, page.HasMore)
	return nil
}

func price(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

func summary(out io.Writer, shown, total, pageSize, reveal int, more bool) {
	fmt.Fprintf(out, "showing %d of %d (page size %d, pages %d, more: %t)\n", shown, total, pageSize, reveal, more)
}
