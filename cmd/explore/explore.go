package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/prenoms/internal/client"
	"github.com/pkordes/prenoms/internal/search"
	"github.com/pkordes/prenoms/internal/selection"
	"github.com/pkordes/prenoms/internal/tui"
)

type exploreFlags struct {
	apiURL    string
	shareBase string
	names     string
	link      string
	delay     time.Duration
}

func newRootCmd() *cobra.Command {
	var f exploreFlags
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse French given-name trends in the terminal",
		Long: `Explore searches names as you type, keeps a selection of names and
draws their yearly birth counts. On exit it prints the link that reopens
the same selection.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.apiURL, "api", "http://localhost:8080", "base URL of the API server")
	cmd.Flags().StringVar(&f.shareBase, "share-base", "http://localhost:3000/", "page URL used for share links")
	cmd.Flags().StringVar(&f.names, "names", "", "initial selection, comma-separated")
	cmd.Flags().StringVar(&f.link, "link", "", "shared link to restore the selection from")
	cmd.Flags().DurationVar(&f.delay, "delay", search.DefaultDelay, "search debounce delay")
	cmd.MarkFlagsMutuallyExclusive("names", "link")
	return cmd
}

func runExplore(ctx context.Context, f exploreFlags, stdout io.Writer) error {
	api, err := client.New(f.apiURL)
	if err != nil {
		return err
	}
	base, err := url.Parse(f.shareBase)
	if err != nil {
		return fmt.Errorf("share base: %w", err)
	}
	initial, err := initialSelection(f)
	if err != nil {
		return err
	}

	if err := api.Ping(ctx); err != nil {
		return fmt.Errorf("api %s unavailable: %w", f.apiURL, err)
	}

	sel, err := tui.Run(ctx, api, tui.Options{Delay: f.delay, Initial: initial, ShareBase: base})
	if err != nil {
		return err
	}
	if !sel.Empty() {
		fmt.Fprintln(stdout, sel.ShareURL(base))
	}
	return nil
}

// initialSelection decodes --names or --link with the shared selection codec.
func initialSelection(f exploreFlags) (selection.Selection, error) {
	switch {
	case f.link != "":
		u, err := url.Parse(f.link)
		if err != nil {
			return selection.Selection{}, fmt.Errorf("link: %w", err)
		}
		return selection.Parse(u.RawQuery)
	case f.names != "":
		return selection.FromQuery(url.Values{selection.Param: {f.names}})
	default:
		return selection.New(), nil
	}
}
