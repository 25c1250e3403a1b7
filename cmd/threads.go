package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zhubert/secops/internal/thread"
	"github.com/zhubert/secops/internal/ui"
)

// pickThread runs the interactive thread picker. Swapped out in tests.
var pickThread = func(s *thread.Store) (string, error) {
	id := s.ActiveID()
	if err := ui.ThreadSelect(s.List(), &id).Run(); err != nil {
		return "", err
	}
	return id, nil
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage the threads scans are inserted into",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List threads",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, s *thread.Store, _ []string) error {
		threads := s.List()
		if listOutput != "text" {
			return writeThreads(cmd.OutOrStdout(), listOutput, threadViews(s))
		}
		if len(threads) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No threads.")
			return nil
		}
		active := s.ActiveID()
		for _, t := range threads {
			line := ui.ThreadLabel(t) + "  " + ui.ListMutedStyle.Render(t.ID)
			if t.ID == active {
				fmt.Fprintln(cmd.OutOrStdout(), ui.ListActiveStyle.Render("* ")+line)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
			}
		}
		return nil
	}),
}

var threadsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a thread and make it active",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s *thread.Store, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		t, err := s.New(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created thread %q (%s)\n", t.Name, t.ID)
		return nil
	}),
}

var threadsSelectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Make a thread active; prompts when no id is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s *thread.Store, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			if len(s.List()) == 0 {
				return fmt.Errorf("no threads to select; create one with 'secops threads new'")
			}
			picked, err := pickThread(s)
			if err != nil {
				return err
			}
			id = picked
		}
		if err := s.Select(id); err != nil {
			return err
		}
		t, err := s.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active thread: %s\n", t.Name)
		return nil
	}),
}

var threadsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a thread's composer draft (the active thread by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s *thread.Store, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		t, err := s.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Draft)
		return nil
	}),
}

var threadsClearCmd = &cobra.Command{
	Use:   "clear [id]",
	Short: "Empty a thread's composer draft (the active thread by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s *thread.Store, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		return s.ClearDraft(id)
	}),
}

var listOutput string

// threadView is the machine-readable form of a thread.
type threadView struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Active     bool      `json:"active" yaml:"active"`
	DraftBytes int       `json:"draft_bytes" yaml:"draft_bytes"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

func threadViews(s *thread.Store) []threadView {
	active := s.ActiveID()
	threads := s.List()
	views := make([]threadView, len(threads))
	for i, t := range threads {
		views[i] = threadView{
			ID:         t.ID,
			Name:       t.Name,
			Active:     t.ID == active,
			DraftBytes: len(t.Draft),
			CreatedAt:  t.CreatedAt,
		}
	}
	return views
}

func writeThreads(w io.Writer, format string, views []threadView) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(views)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func init() {
	threadsListCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format: text, json or yaml")
	threadsCmd.AddCommand(threadsListCmd, threadsNewCmd, threadsSelectCmd, threadsShowCmd, threadsClearCmd)
	rootCmd.AddCommand(threadsCmd)
}

// withStore loads the config and hands a thread store to fn.
func withStore(fn func(cmd *cobra.Command, s *thread.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return fn(cmd, thread.NewStore(cfg), args)
	}
}
