package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"anklebreaker/internal/application/orchestrators"
	"anklebreaker/internal/application/projections"
	"anklebreaker/internal/domain/registrant"
)

func newIngestCmd() *cobra.Command {
	var clubName, eventDate, dir string
	cmd := &cobra.Command{
		Use:   "ingest [exports...]",
		Short: "Ingest registration exports and create a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			paths := args
			if dir != "" {
				found, gerr := collectExports(dir)
				if gerr != nil {
					return gerr
				}
				paths = append(paths, found...)
			}

			ingested, err := orchestrators.ExecuteIngestExports(ctx,
				orchestrators.IngestExportsInput{Paths: paths},
				orchestrators.IngestExportsDeps{
					Parser:     a.parser,
					Classifier: a.classifier,
					GenerateID: generateID,
				})
			if err != nil {
				return err
			}
			printWarnings(ingested.Warnings)

			created, err := orchestrators.ExecuteCreateSession(ctx,
				orchestrators.CreateSessionInput{
					Club:      clubName,
					EventDate: eventDate,
					Files:     ingested.Files,
				},
				orchestrators.CreateSessionDeps{
					SessionStore: a.store,
					ClubRegistry: a.registry,
					Notifier:     a.notifier,
					GenerateID:   generateID,
					Now:          timeNow,
				})
			if err != nil {
				return err
			}

			s := created.Session
			fmt.Printf("Created %s (%d files", s.FolderName, len(s.Files))
			if s.Flagged() {
				fmt.Printf(", %d flagged", len(s.FlaggedFiles()))
			}
			fmt.Println(")")
			return nil
		},
	}
	cmd.Flags().StringVar(&clubName, "club", "", "club the event belongs to")
	cmd.Flags().StringVar(&eventDate, "date", "", "event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dir, "dir", "", "ingest every export in a folder")
	cmd.MarkFlagRequired("club")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newSessionsCmd() *cobra.Command {
	var flaggedOnly, includePaid bool
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions under the sessions root",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			summaries, err := projections.ListSessions(cmd.Context(),
				projections.ListSessionsQuery{IncludePaid: includePaid, FlaggedOnly: flaggedOnly},
				projections.ListSessionsDeps{SessionStore: a.store})
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FOLDER\tCLUB\tDATE\tFLAGGED\tPAID\tNET")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.FolderName, s.Club, s.EventDate,
					yesNo(s.Flagged), yesNo(s.Paid), s.NetToClub.StringFixed(2))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&flaggedOnly, "flagged", false, "only sessions needing review")
	cmd.Flags().BoolVar(&includePaid, "all", false, "include paid (archived) sessions")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-folder>",
		Short: "Show per-file status counts for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			s := opened.Session

			fmt.Printf("%s — %s, %s\n", s.FolderName, s.Club, s.EventDate)
			counts := projections.GetStatusCounts(s)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(w, "FILE")
			for _, status := range registrant.AllStatuses {
				fmt.Fprintf(w, "\t%s", strings.ToUpper(string(status)))
			}
			fmt.Fprintln(w, "\tFLAGGED")
			for _, fc := range counts.PerFile {
				fmt.Fprint(w, fc.FileName)
				for _, status := range registrant.AllStatuses {
					fmt.Fprintf(w, "\t%d", fc.Counts[status])
				}
				fmt.Fprintf(w, "\t%s\n", yesNo(fc.Flagged))
			}
			fmt.Fprint(w, "TOTAL")
			for _, status := range registrant.AllStatuses {
				fmt.Fprintf(w, "\t%d", counts.Consolidated[status])
			}
			fmt.Fprintf(w, "\t%s\n", yesNo(s.Flagged()))
			return w.Flush()
		},
	}
}

func newSetStatusCmd() *cobra.Command {
	var record int
	var name, email, status string
	cmd := &cobra.Command{
		Use:   "set-status <session-folder> <file>",
		Short: "Assign a registrant's current status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			s := opened.Session

			f, err := s.FileByBaseName(args[1])
			if err != nil {
				return err
			}
			if err := validateRecordAddress(record, name, email); err != nil {
				return err
			}
			parsed := registrant.ParseStatus(status)
			if string(parsed) != strings.ToLower(strings.TrimSpace(status)) {
				return fmt.Errorf("unrecognized status %q", status)
			}

			result, err := orchestrators.ExecuteSetStatus(cmd.Context(),
				orchestrators.SetStatusInput{
					Session:     s,
					FileID:      f.ID,
					RecordIndex: record,
					Name:        name,
					Email:       email,
					NewStatus:   parsed,
				},
				orchestrators.SetStatusDeps{SessionStore: a.store, Notifier: a.notifier})
			if err != nil {
				return err
			}

			for _, r := range result.Propagation.RenamedFiles {
				fmt.Printf("Renamed %s -> %s\n", r.OldName, r.NewName)
			}
			if result.Propagation.FolderRenamed {
				fmt.Printf("Renamed %s -> %s\n", result.Propagation.OldFolderName, result.Propagation.NewFolderName)
			}
			fmt.Printf("%s: status set to %s (file flagged: %s)\n",
				result.File.BaseName, parsed, yesNo(result.File.IsFlagged()))
			return nil
		},
	}
	cmd.Flags().IntVar(&record, "record", -1, "record position within the file (0-based)")
	cmd.Flags().StringVar(&name, "name", "", "registrant name (identity match)")
	cmd.Flags().StringVar(&email, "email", "", "registrant email (identity match)")
	cmd.Flags().StringVar(&status, "status", "", "new status (regular|manual|comped|refund|waitlist|other)")
	cmd.MarkFlagRequired("status")
	return cmd
}

func newSetFeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-fee <session-folder> <file> <price>",
		Short: "Set a file's per-registrant price",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			s := opened.Session

			f, err := s.FileByBaseName(args[1])
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[2], err)
			}

			result, err := orchestrators.ExecuteSetFee(cmd.Context(),
				orchestrators.SetFeeInput{Session: s, FileID: f.ID, Price: price},
				orchestrators.SetFeeDeps{SessionStore: a.store, Notifier: a.notifier})
			if err != nil {
				return err
			}

			fmt.Printf("%s priced at %s\n", f.BaseName, price.StringFixed(2))
			if !result.ScheduleComplete {
				fmt.Println("Fee schedule is still incomplete.")
			}
			return nil
		},
	}
}

func newPaidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paid <session-folder>",
		Short: "Mark a session paid (archives it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := orchestrators.ExecuteMarkPaid(cmd.Context(),
				orchestrators.MarkPaidInput{Session: opened.Session},
				orchestrators.MarkPaidDeps{SessionStore: a.store, Notifier: a.notifier}); err != nil {
				return err
			}
			fmt.Printf("%s marked paid.\n", opened.Session.FolderName)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <session-folder>",
		Short: "Delete a session and its on-disk directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("deletion is permanent; re-run with --force")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := orchestrators.ExecuteDeleteSession(cmd.Context(),
				orchestrators.DeleteSessionInput{Session: opened.Session},
				orchestrators.DeleteSessionDeps{SessionStore: a.store, Notifier: a.notifier}); err != nil {
				return err
			}
			fmt.Printf("%s deleted.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm permanent deletion")
	return cmd
}

// validateRecordAddress checks that the set-status flags name exactly one
// registrant: either --record, or the --name/--email identity pair.
func validateRecordAddress(record int, name, email string) error {
	byPosition := record >= 0
	byIdentity := name != "" || email != ""
	switch {
	case byPosition && byIdentity:
		return fmt.Errorf("use either --record or --name/--email, not both")
	case !byPosition && !byIdentity:
		return fmt.Errorf("identify the registrant with --record or --name/--email")
	case byIdentity && (name == "" || email == ""):
		return fmt.Errorf("identity matching needs both --name and --email")
	}
	return nil
}

// openSession loads a session and stamps last-opened.
func openSession(cmd *cobra.Command, a *app, folder string) (orchestrators.OpenSessionResult, error) {
	return orchestrators.ExecuteOpenSession(cmd.Context(),
		orchestrators.OpenSessionInput{FolderName: folder},
		orchestrators.OpenSessionDeps{SessionStore: a.store, Now: timeNow})
}

// collectExports gathers every CSV/XLSX export in a folder.
func collectExports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no exports found in %s", dir)
	}
	return paths, nil
}

func printWarnings(warnings []orchestrators.IngestWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", filepath.Base(w.Path), w.Message)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
