package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/service"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// open() already migrated
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.cfg.Database.Driver)
			return nil
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge-notifications",
		Short: "Delete read notifications older than the retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			retention, _ := cmd.Flags().GetDuration("retention")
			if retention == 0 {
				retention = a.cfg.Notification.Retention
			}
			n, err := a.svc.Notifications.PurgeRead(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d notifications\n", n)
			return nil
		},
	}
	cmd.Flags().Duration("retention", 0, "override notification.retention")
	return cmd
}

// writer create|list|show|rename|delete
func newWriterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "writer",
		Short:   "Manage writers",
		Aliases: []string{"writers"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Add a writer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.svc.Bookshelf.CreateWriter(cmd.Context(), service.WriterInput{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.ID)
			return nil
		},
	})

	list := &cobra.Command{
		Use:     "list",
		Short:   "List writers",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			p, err := a.svc.Bookshelf.ListWriters(cmd.Context(), page, 0)
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "NAME")
			for _, w := range p.Items {
				fmt.Fprintf(tw, "%s\t%s\n", w.ID, w.Name)
			}
			return footer(cmd.OutOrStdout(), tw, p.Page, p.Total)
		},
	}
	list.Flags().Int("page", 1, "page number")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [writer_id]",
		Short: "Show a writer and their books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.svc.Bookshelf.GetWriter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", w.Name, w.ID)
			printBooks(cmd.OutOrStdout(), w.Books)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename [writer_id] [name]",
		Short: "Rename a writer",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.svc.Bookshelf.UpdateWriter(cmd.Context(), args[0], service.WriterInput{Name: strings.Join(args[1:], " ")})
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [writer_id]",
		Short: "Delete a writer and all their books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.Bookshelf.DeleteWriter(cmd.Context(), args[0])
		},
	})
	return cmd
}

// book add|list|show|update|delete
func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Short:   "Manage books",
		Aliases: []string{"books"},
	}

	add := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := bookInput(cmd, strings.Join(args, " "))
			if err != nil {
				return err
			}
			b, err := a.svc.Bookshelf.CreateBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}
	bookFlags(add)
	cmd.AddCommand(add)

	list := &cobra.Command{
		Use:     "list",
		Short:   "List books",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var p query.Params
			if s, _ := cmd.Flags().GetString("search"); s != "" {
				p.Search = &s
			}
			if w, _ := cmd.Flags().GetString("writer"); w != "" {
				p.AuthorID = &w
			}
			p.Ordering, _ = cmd.Flags().GetString("ordering")
			p.Page, _ = cmd.Flags().GetInt("page")
			p.PageSize, _ = cmd.Flags().GetInt("page-size")
			page, err := a.svc.Bookshelf.ListBooks(cmd.Context(), p)
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), page.Items)
			fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d total\n", page.Page, page.Total)
			return nil
		},
	}
	list.Flags().StringP("search", "s", "", "title contains")
	list.Flags().StringP("writer", "w", "", "writer id")
	list.Flags().StringP("ordering", "o", "", "title | publication_year, prefix - for descending")
	list.Flags().Int("page", 1, "page number")
	list.Flags().Int("page-size", 0, "page size")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [book_id]",
		Short: "Show a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.svc.Bookshelf.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), []model.Book{*b})
			return nil
		},
	})

	update := &cobra.Command{
		Use:   "update [book_id] [title]",
		Short: "Replace a book's fields",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := bookInput(cmd, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, err = a.svc.Bookshelf.UpdateBook(cmd.Context(), args[0], in)
			return err
		},
	}
	bookFlags(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [book_id]",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.Bookshelf.DeleteBook(cmd.Context(), args[0])
		},
	})
	return cmd
}

func bookFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("year", "y", 0, "publication year")
	cmd.Flags().StringP("writer", "w", "", "writer id")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("writer")
}

func bookInput(cmd *cobra.Command, title string) (service.BookInput, error) {
	year, err := cmd.Flags().GetInt("year")
	if err != nil {
		return service.BookInput{}, err
	}
	writer, err := cmd.Flags().GetString("writer")
	if err != nil {
		return service.BookInput{}, err
	}
	return service.BookInput{Title: title, PublicationYear: year, WriterID: writer}, nil
}

func table(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func footer(w io.Writer, tw *tabwriter.Writer, page int, total int64) error {
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d, %d total\n", page, total)
	return err
}

func printBooks(w io.Writer, books []model.Book) {
	tw := table(w, "ID", "TITLE", "YEAR", "WRITER")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", b.ID, b.Title, b.PublicationYear, b.WriterID)
	}
	_ = tw.Flush()
}
