package posts

import (
	"github.com/ValentinKolb/dBlog/cmd/util"
	"github.com/spf13/cobra"
)

var (
	session *util.Session

	// PostsCommands represents the posts command group
	PostsCommands = &cobra.Command{
		Use:                "posts",
		Short:              "List, show, create and edit blog posts",
		PersistentPreRunE:  openSession,
		PersistentPostRunE: closeSession,
	}
)

func init() {
	// Add subcommands
	PostsCommands.AddCommand(listCmd)
	PostsCommands.AddCommand(showCmd)
	PostsCommands.AddCommand(createCmd)
	PostsCommands.AddCommand(updateCmd)
	PostsCommands.AddCommand(authorsCmd)
	PostsCommands.AddCommand(categoriesCmd)
	PostsCommands.AddCommand(perfTestCmd)
}

// openSession opens the slot configured by flags, env vars and .env files
func openSession(cmd *cobra.Command, _ []string) error {
	var err error
	session, err = util.OpenSession(cmd)
	return err
}

func closeSession(_ *cobra.Command, _ []string) error {
	err := session.Close()
	session = nil
	return err
}
