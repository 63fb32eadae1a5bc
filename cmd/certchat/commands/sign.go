package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/services/document"
	"certchat/internal/store"
)

// sign <file>: create an identity for --name and write <file>.sig.json.
func signCmd() *cobra.Command {
	var name, out string
	cmd := &cobra.Command{
		Use:   "sign <file>",
		Short: "Sign a file with a fresh certified ECDSA identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := store.OpenDiskFile(args[0])
			if err != nil {
				return err
			}

			ictx, cancel := issueContext(cmd.Context())
			defer cancel()
			id, err := wire.Identities.CreateIdentity(ictx, domain.Username(name))
			if err != nil {
				return err
			}
			defer id.Wipe()

			sig, err := wire.Documents.SignAsymmetric(cmd.Context(), file, id)
			if err != nil {
				return err
			}
			data, err := document.MarshalScheme(domain.Asymmetric{Signature: sig})
			if err != nil {
				return err
			}
			if out == "" {
				out = store.SignaturePath(file.Path(), domain.AlgorithmECDSA)
			}
			path, err := wire.Store.WriteSignatureFile(out, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed by: %s\nFingerprint: %s\nSignature: %s\n",
				id.Certificate.Subject, wire.Identities.FingerprintIdentity(id), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the signing identity")
	cmd.Flags().StringVarP(&out, "out", "o", "", "signature file (default <file>.sig.json)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// hmac-sign <file>: MAC a file with a session key from --key-file or a new one.
func hmacSignCmd() *cobra.Command {
	var keyB64, keyFile, out string
	cmd := &cobra.Command{
		Use:   "hmac-sign <file>",
		Short: "Sign a file with an HMAC session key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := store.OpenDiskFile(args[0])
			if err != nil {
				return err
			}

			var sig domain.SymmetricSignature
			var id domain.KeyID
			if keyB64 == "" && keyFile == "" {
				exported, err := wire.Symmetric.GenerateSessionKey()
				if err != nil {
					return err
				}
				path, err := wire.Store.ExportSessionKey(defaultKeyFile, exported, passphrase)
				if errors.Is(err, store.ErrKeyExists) {
					return fmt.Errorf("%w: sign with --key-file %s, or run keygen --force first", err, defaultKeyFile)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "New session key written to %s\n", path)
				if sig, id, err = wire.Documents.SignSymmetric(cmd.Context(), file); err != nil {
					return err
				}
			} else {
				key, err := loadKey(keyB64, keyFile)
				if err != nil {
					return err
				}
				if sig, err = wire.Symmetric.SignFile(file, key); err != nil {
					return err
				}
				id = hmacsign.KeyID(key)
			}

			data, err := document.MarshalScheme(domain.Symmetric{KeyID: id, Signature: sig})
			if err != nil {
				return err
			}
			if out == "" {
				out = store.SignaturePath(file.Path(), domain.AlgorithmHMAC)
			}
			path, err := wire.Store.WriteSignatureFile(out, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key ID: %s\nSignature: %s\n", id, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyB64, "key", "", "base64 session key")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "session key file from keygen")
	cmd.Flags().StringVarP(&out, "out", "o", "", "signature file (default <file>.hmac.json)")
	return cmd
}
