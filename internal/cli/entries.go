package cli

import (
	"fmt"
	"time"

	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/spf13/cobra"
)

var formFlags = []struct {
	name  string
	usage string
	field func(*utils.FormValues) *string
}{
	{"title", "title", func(f *utils.FormValues) *string { return &f.Title }},
	{"status", "watching, complete, plan or dropped", func(f *utils.FormValues) *string { return &f.Status }},
	{"progress", "episodes watched or chapters read", func(f *utils.FormValues) *string { return &f.Progress }},
	{"rating", "rating from 0 to 10", func(f *utils.FormValues) *string { return &f.Rating }},
	{"image", "cover image URL", func(f *utils.FormValues) *string { return &f.ImageURL }},
	{"youtube", "trailer URL", func(f *utils.FormValues) *string { return &f.YoutubeURL }},
	{"streaming", "where to watch or read", func(f *utils.FormValues) *string { return &f.StreamingURL }},
	{"notes", "free text notes", func(f *utils.FormValues) *string { return &f.Notes }},
}

func addFormFlags(cmd *cobra.Command) {
	for _, f := range formFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyFormFlags overrides the fields of form whose flag was given
func applyFormFlags(cmd *cobra.Command, form utils.FormValues) utils.FormValues {
	for _, f := range formFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, _ := cmd.Flags().GetString(f.name)
		*f.field(&form) = value
	}
	return form
}

func parseMediaType(value string) (models.MediaType, error) {
	t := models.MediaType(value)
	if !t.Valid() {
		return "", fmt.Errorf("unknown type %q: must be one of %v", value, models.MediaTypes)
	}
	return t, nil
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			typeFlag, _ := cmd.Flags().GetString("type")
			status, _ := cmd.Flags().GetString("status")
			search, _ := cmd.Flags().GetString("search")
			sortFlag, _ := cmd.Flags().GetString("sort")
			offline, _ := cmd.Flags().GetBool("offline")

			query := utils.Query{Status: status, Text: search}
			if typeFlag != "" {
				if query.Type, err = parseMediaType(typeFlag); err != nil {
					return err
				}
			}

			sortKey := utils.SortKey(sortFlag)
			switch sortKey {
			case utils.SortNone, utils.SortTitle, utils.SortRating, utils.SortUpdated:
			default:
				return fmt.Errorf("unknown sort order %q: must be title, rating or updated", sortFlag)
			}

			var raws []models.RawRecord
			if offline {
				raws = ctx.Sync.LocalEntries()
			} else {
				raws = ctx.Sync.ListAll(cmd.Context())
			}

			vms := utils.Sort(utils.Filter(utils.Project(raws), query), sortKey)

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), vms)
			}
			writeEntries(cmd.OutOrStdout(), vms)
			return nil
		},
	}

	cmd.Flags().String("type", "", "anime, manga or manhwa")
	cmd.Flags().String("status", "", "only entries with this status")
	cmd.Flags().StringP("search", "s", "", "title search, at least 3 characters")
	cmd.Flags().String("sort", "", "title, rating or updated")
	cmd.Flags().Bool("offline", false, "read the local cache only")
	return cmd
}

// NewCountsCmd creates the counts command.
func NewCountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show how many entries each type and status holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			typeFlag, _ := cmd.Flags().GetString("type")
			offline, _ := cmd.Flags().GetBool("offline")

			var only models.MediaType
			if typeFlag != "" {
				if only, err = parseMediaType(typeFlag); err != nil {
					return err
				}
			}

			var raws []models.RawRecord
			if offline {
				raws = ctx.Sync.LocalEntries()
			} else {
				raws = ctx.Sync.ListAll(cmd.Context())
			}
			counts := utils.Counts(utils.Project(raws))

			if ctx.JSONMode {
				if only != "" {
					return writeJSON(cmd.OutOrStdout(), counts[only])
				}
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			writeCounts(cmd.OutOrStdout(), counts, only)
			return nil
		},
	}

	cmd.Flags().String("type", "", "anime, manga or manhwa")
	cmd.Flags().Bool("offline", false, "read the local cache only")
	return cmd
}

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <type> --title <title>",
		Short: "Add an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, err := parseMediaType(args[0])
			if err != nil {
				return err
			}

			rec, err := utils.ToStoragePayload(mediaType, applyFormFlags(cmd, utils.FormValues{}), time.Now())
			if err != nil {
				return err
			}

			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			id, err := ctx.Sync.Create(cmd.Context(), rec)
			if err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", rec.Title, id)
			return nil
		},
	}

	addFormFlags(cmd)
	return cmd
}

// NewEditCmd creates the edit command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			id := args[0]
			var current *models.ViewModel
			for _, vm := range utils.Project(ctx.Sync.ListAll(cmd.Context())) {
				if vm.ID == id {
					current = &vm
					break
				}
			}
			if current == nil {
				return fmt.Errorf("entry %s not found", id)
			}

			form := applyFormFlags(cmd, utils.FormValuesFrom(*current))
			rec, err := utils.ToStoragePayload(current.Type, form, time.Now())
			if err != nil {
				return err
			}

			if err := ctx.Sync.Update(cmd.Context(), id, rec); err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"id": id, "status": "updated"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", rec.Title)
			return nil
		},
	}

	addFormFlags(cmd)
	return cmd
}

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			if err := ctx.Sync.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"id": args[0], "status": "deleted"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
