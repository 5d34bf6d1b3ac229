package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/h0rv/fetchlist/internal/present"
	"github.com/h0rv/fetchlist/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats for the list command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	flagListSearch string
	flagListGroup  string
	flagListFormat string
)

// listOutput is the serialized form of a presented view.
type listOutput struct {
	Status string          `json:"status" yaml:"status"`
	Total  int             `json:"total" yaml:"total"`
	Shown  int             `json:"shown" yaml:"shown"`
	Groups []present.Group `json:"groups" yaml:"groups"`
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch once and print the filtered, grouped list",
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := present.ParseGroupFilter(flagListGroup)
			if err != nil {
				return fmt.Errorf("--group: %w", err)
			}
			switch flagListFormat {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("--format: unknown format %q", flagListFormat)
			}

			state, err := fetchOnce(cmd.Context())
			if err != nil {
				return err
			}

			view := present.Present(state.Records, present.FilterInput{
				SearchText: flagListSearch,
				Group:      group,
			})
			return writeView(cmd.OutOrStdout(), view, flagListFormat)
		},
	}

	cmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().StringVarP(&flagListGroup, "group", "g", "all", "list ID to show, or all")
	cmd.Flags().StringVarP(&flagListFormat, "format", "f", formatTable, "output format: table, json, or yaml")
	return cmd
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Print the list IDs available for --group",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := fetchOnce(cmd.Context())
			if err != nil {
				return err
			}
			for _, opt := range present.GroupOptions(state.Records) {
				fmt.Fprintln(cmd.OutOrStdout(), opt.Label)
			}
			return nil
		},
	}
}

// fetchOnce runs the store's initial refresh to completion. A failed fetch
// is only an error here because there is no earlier data to fall back to.
func fetchOnce(ctx context.Context) (store.ViewState, error) {
	cfg, err := loadConfig()
	if err != nil {
		return store.ViewState{}, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return store.ViewState{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := store.New(ctx, client, store.WithTagger(newTagger(cfg)))
	s.Wait()

	state := s.Snapshot()
	if state.LastError != nil {
		return state, fmt.Errorf("fetch records: %w", state.LastError)
	}
	return state, nil
}

func writeView(w io.Writer, view present.View, format string) error {
	out := listOutput{
		Status: view.Status.String(),
		Total:  view.Total,
		Shown:  view.Len(),
		Groups: view.Groups,
	}
	if out.Groups == nil {
		out.Groups = []present.Group{}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		return writeTable(w, view)
	}
	return errors.New("unknown format " + strconv.Quote(format))
}

func writeTable(w io.Writer, view present.View) error {
	switch view.Status {
	case present.StatusEmpty:
		_, err := fmt.Fprintln(w, "Nothing's here...")
		return err
	case present.StatusNoMatches:
		_, err := fmt.Fprintln(w, "Nothing matches your search")
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoWrapText(false)
	if view.ShowHeaders {
		tw.SetHeader([]string{"LIST", "ITEM ID", "NAME", "ICON"})
	} else {
		tw.SetHeader([]string{"ITEM ID", "NAME", "ICON"})
	}
	for _, row := range view.Rows() {
		if row.Header {
			continue
		}
		r := row.Record
		cells := []string{strconv.Itoa(r.ID), r.Name, r.Tag.Glyph()}
		if view.ShowHeaders {
			cells = append([]string{strconv.Itoa(r.ListID)}, cells...)
		}
		tw.Append(cells)
	}
	tw.Render()
	return nil
}
