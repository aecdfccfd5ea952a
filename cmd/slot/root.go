package slot

import (
	"github.com/ValentinKolb/dBlog/cmd/util"
	"github.com/spf13/cobra"
)

var (
	session *util.Session

	// SlotCommands represents the slot maintenance command group
	SlotCommands = &cobra.Command{
		Use:                "slot",
		Short:              "Inspect, export, import and reset the persistent slot",
		PersistentPreRunE:  openSession,
		PersistentPostRunE: closeSession,
	}
)

func init() {
	SlotCommands.AddCommand(dumpCmd)
	SlotCommands.AddCommand(resetCmd)
	SlotCommands.AddCommand(infoCmd)
	SlotCommands.AddCommand(importCmd)
}

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
