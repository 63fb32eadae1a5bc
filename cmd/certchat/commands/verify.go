package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/services/document"
	"certchat/internal/store"
)

var errVerificationFailed = errors.New("verification failed")

// verify <file>: check a detached signature file of either algorithm.
func verifyCmd() *cobra.Command {
	var sigPath, keyB64, keyFile string
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a detached signature file (ECDSA or HMAC)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, scheme, err := loadSigned(args[0], sigPath, "")
			if err != nil {
				return err
			}
			switch sch := scheme.(type) {
			case domain.Asymmetric:
				return reportDetached(cmd.OutOrStdout(), file, sch)
			case domain.Symmetric:
				return verifySymmetric(cmd, file, sch, keyB64, keyFile)
			default:
				return domain.ErrInvalidSignatureFile
			}
		},
	}
	cmd.Flags().StringVarP(&sigPath, "sig", "s", "", "signature file (default <file>.sig.json or <file>.hmac.json)")
	cmd.Flags().StringVar(&keyB64, "key", "", "base64 session key for HMAC signatures")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "session key file for HMAC signatures")
	return cmd
}

// hmac-verify <file>: verify an HMAC signature file.
func hmacVerifyCmd() *cobra.Command {
	var sigPath, keyB64, keyFile string
	cmd := &cobra.Command{
		Use:   "hmac-verify <file>",
		Short: "Verify an HMAC signature file with a session key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, scheme, err := loadSigned(args[0], sigPath, domain.AlgorithmHMAC)
			if err != nil {
				return err
			}
			sch, ok := scheme.(domain.Symmetric)
			if !ok {
				return fmt.Errorf("%w: not an HMAC signature", domain.ErrInvalidSignatureFile)
			}
			return verifySymmetric(cmd, file, sch, keyB64, keyFile)
		},
	}
	cmd.Flags().StringVarP(&sigPath, "sig", "s", "", "signature file (default <file>.hmac.json)")
	cmd.Flags().StringVar(&keyB64, "key", "", "base64 session key")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "session key file")
	return cmd
}

// loadSigned opens the document and parses its signature file. With an empty
// sigPath the default paths are tried, restricted to algorithm when set.
func loadSigned(docPath, sigPath, algorithm string) (*store.DiskFile, domain.SignatureScheme, error) {
	file, err := store.OpenDiskFile(docPath)
	if err != nil {
		return nil, nil, err
	}
	candidates := []string{sigPath}
	if sigPath == "" {
		candidates = nil
		for _, alg := range []string{domain.AlgorithmECDSA, domain.AlgorithmHMAC} {
			if algorithm == "" || algorithm == alg {
				candidates = append(candidates, store.SignaturePath(docPath, alg))
			}
		}
	}

	var lastErr error
	for _, p := range candidates {
		data, err := wire.Store.ReadSignatureFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		scheme, err := document.ParseScheme(data)
		if err != nil {
			return nil, nil, err
		}
		return file, scheme, nil
	}
	return nil, nil, fmt.Errorf("no signature file for %s: %w", docPath, lastErr)
}

func reportDetached(out io.Writer, file domain.File, sch domain.Asymmetric) error {
	cert := sch.Signature.Certificate
	if err := document.CheckDetached(file, sch.Signature, time.Now()); err != nil {
		fmt.Fprintf(out, "INVALID: %v\n", err)
		return errVerificationFailed
	}
	fmt.Fprintf(out, "VALID: content and signature match %s (%s)\n",
		cert.Subject, wire.Identities.FingerprintIdentity(domain.Identity{Certificate: cert}))
	fmt.Fprintf(out, "Certificate valid until %s. Issuer %s belonged to an earlier session and cannot be re-checked.\n",
		cert.ExpiryTime().Format(time.RFC3339), cert.Issuer)
	return nil
}

func verifySymmetric(cmd *cobra.Command, file domain.File, sch domain.Symmetric, keyB64, keyFile string) error {
	key, err := loadKey(keyB64, keyFile)
	if err != nil {
		return err
	}
	v := wire.Documents.Verify(cmd.Context(), file, sch, document.StaticKey(key))
	if !v.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "INVALID: %v\n", v.Reason)
		return errVerificationFailed
	}
	fmt.Fprintf(cmd.OutOrStdout(), "VALID: HMAC matches under key %s\n", hmacsign.KeyID(key))
	return nil
}
