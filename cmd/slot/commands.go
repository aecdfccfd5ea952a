package slot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/dBlog/cmd/util"
	libslot "github.com/ValentinKolb/dBlog/lib/slot"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"io"
	"os"
)

var (
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Writes the stored dataset blob to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, ok, err := session.Adapter.Raw(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "slot %q is empty\n", session.Adapter.Key())
				return nil
			}

			pretty := isatty.IsTerminal(os.Stdout.Fd())
			if cmd.Flags().Changed("pretty") {
				pretty, _ = cmd.Flags().GetBool("pretty")
			}
			return writeBlob(cmd.OutOrStdout(), raw, pretty)
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Deletes the stored dataset so that the next command seeds it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Adapter.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "slot reset successfully")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Shows the configuration and the state of the storage engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := session.Adapter.Info()
			if err != nil {
				return err
			}
			raw, ok, err := session.Adapter.Raw(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, session.Config.String())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "SLOT")
			fmt.Fprintf(out, "  %-22s: %t\n", "Seeded", ok)
			fmt.Fprintf(out, "  %-22s: %d bytes\n", "Blob Size", len(raw))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "ENGINE")

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	importCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Replaces the stored dataset with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := importFile(cmd.Context(), session.Adapter, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts from %s\n", n, args[0])
			return nil
		},
	}
)

func init() {
	key := "pretty"
	dumpCmd.Flags().Bool(key, false, util.WrapString("Indent the JSON output (default: only when writing to a terminal)"))
}

// writeBlob writes raw to w, indented if pretty is set
func writeBlob(w io.Writer, raw []byte, pretty bool) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err == nil {
			raw = buf.Bytes()
		}
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// importFile decodes the document at path and saves it into the slot.
// It returns the number of imported posts.
func importFile(ctx context.Context, adapter *libslot.Adapter, path string) (int, error) {
	doc, err := libslot.FileBootstrap(path).Fetch(ctx)
	if err != nil {
		return 0, err
	}
	codec, err := libslot.CodecFor(doc.Format)
	if err != nil {
		return 0, err
	}
	d, err := codec.Decode(doc.Data)
	if err != nil {
		return 0, err
	}
	if err := adapter.Save(ctx, d); err != nil {
		return 0, err
	}
	return len(d.Posts), nil
}
