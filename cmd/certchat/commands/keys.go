package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"certchat/internal/hmacsign"
)

const defaultKeyFile = "session.key"

// keygen: generate an HMAC session key and export it.
func keygenCmd() *cobra.Command {
	var out string
	var show, force bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an HMAC session key and export it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyB64, err := wire.Symmetric.GenerateSessionKey()
			if err != nil {
				return err
			}
			id, _ := wire.Symmetric.CurrentKeyID()
			export := wire.Store.ExportSessionKey
			if force {
				export = wire.Store.ReplaceSessionKey
			}
			path, err := export(out, keyB64, passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key ID: %s\nWritten: %s (sealed: %t)\n", id, path, passphrase != "")
			if show {
				fmt.Fprintf(cmd.OutOrStdout(), "Key: %s\n", keyB64)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", defaultKeyFile, "key file, relative to home unless absolute")
	cmd.Flags().BoolVar(&show, "show", false, "also print the base64 key")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing key file")
	return cmd
}

// loadKey resolves a key from --key or --key-file.
func loadKey(keyB64, keyFile string) ([]byte, error) {
	switch {
	case keyB64 != "":
		return hmacsign.ParseKey(keyB64)
	case keyFile != "":
		s, err := wire.Store.ImportSessionKey(keyFile, passphrase)
		if err != nil {
			return nil, err
		}
		return hmacsign.ParseKey(s)
	default:
		return nil, errors.New("a session key is required (--key or --key-file)")
	}
}
