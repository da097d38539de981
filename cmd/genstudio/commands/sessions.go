package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/history"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored conversations",
	Long: `List, inspect and delete locally stored chat sessions.

Sessions are created automatically by 'genstudio chat' and live in
~/.genstudio/history.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.List(context.Background())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			printInfo("No stored sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUPDATED\tMODEL\tTITLE")
		for _, sess := range sessions {
			updated := time.Unix(0, sess.UpdatedAt).Format("2006-01-02 15:04")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sess.ID, updated, sess.Model, sess.Title)
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		messages, err := store.Messages(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, msg := range messages {
			fmt.Printf("%s: %s\n", msg.Role, msg.Text)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		printSuccess("Session %s deleted", args[0])
		return nil
	},
}

// openHistory opens the session store under ~/.genstudio/history.
func openHistory() (*history.Store, error) {
	paths, err := cli.NewPaths()
	if err != nil {
		return nil, err
	}
	dir, err := cli.EnsureDir(paths.HistoryDir())
	if err != nil {
		return nil, err
	}
	return history.Open(history.Options{Dir: dir})
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
