package commands

import (
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"certchat/internal/domain"
	"certchat/internal/services/document"
)

type certificateView struct {
	Subject     string `yaml:"subject"`
	Issuer      string `yaml:"issuer"`
	Fingerprint string `yaml:"fingerprint"`
	IssuedAt    string `yaml:"issued_at"`
	ExpiresAt   string `yaml:"expires_at"`
	Expired     bool   `yaml:"expired"`
}

type signatureView struct {
	Algorithm    string           `yaml:"algorithm"`
	SignedAt     string           `yaml:"signed_at"`
	DocumentHash string           `yaml:"document_hash,omitempty"`
	Certificate  *certificateView `yaml:"certificate,omitempty"`
	KeyID        string           `yaml:"key_id,omitempty"`
	Filename     string           `yaml:"filename,omitempty"`
	Size         int64            `yaml:"size,omitempty"`
	Type         string           `yaml:"type,omitempty"`
}

// inspect <signature-file>: print a signature file's contents as YAML.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <signature-file>",
		Short: "Show the contents of a signature file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := wire.Store.ReadSignatureFile(args[0])
			if err != nil {
				return err
			}
			scheme, err := document.ParseScheme(data)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(viewOf(scheme, time.Now())); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func viewOf(scheme domain.SignatureScheme, now time.Time) signatureView {
	v := signatureView{Algorithm: scheme.Algorithm()}
	switch sch := scheme.(type) {
	case domain.Asymmetric:
		cert := sch.Signature.Certificate
		v.SignedAt = stamp(sch.Signature.Timestamp)
		v.DocumentHash = sch.Signature.DocumentHash
		v.Certificate = &certificateView{
			Subject:     cert.Subject,
			Issuer:      cert.Issuer,
			Fingerprint: wire.Identities.FingerprintIdentity(domain.Identity{Certificate: cert}).String(),
			IssuedAt:    stamp(cert.IssuedAt),
			ExpiresAt:   stamp(cert.ExpiresAt),
			Expired:     cert.ExpiredAt(now),
		}
	case domain.Symmetric:
		v.SignedAt = stamp(sch.Signature.Timestamp)
		v.KeyID = sch.KeyID.String()
		v.Filename = sch.Signature.Filename
		v.Size = sch.Signature.Size
		v.Type = sch.Signature.Type
	}
	return v
}

func stamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
