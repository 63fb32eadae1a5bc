package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/protocol/ratchet"
	"certchat/internal/services/document"
)

const demoRoom domain.RoomID = "lobby"

// demo: two participants exchange plain and encrypted messages, sign and
// tamper with a document, MAC it, then reset the session.
func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an in-process session exercising every signing path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func runDemo(ctx context.Context, out io.Writer) error {
	ictx, cancel := issueContext(ctx)
	defer cancel()
	alice, err := wire.Identities.CreateIdentity(ictx, "alice")
	if err != nil {
		return err
	}
	defer alice.Wipe()
	bob, err := wire.Identities.CreateIdentity(ictx, "bob")
	if err != nil {
		return err
	}
	defer bob.Wipe()
	fmt.Fprintf(out, "== identities\n%s %s\n%s %s\n",
		alice.Certificate.Subject, wire.Identities.FingerprintIdentity(alice),
		bob.Certificate.Subject, wire.Identities.FingerprintIdentity(bob))

	for _, m := range []domain.Username{alice.DisplayName, bob.DisplayName} {
		if err := wire.Relay.Join(ctx, demoRoom, m); err != nil {
			return err
		}
	}

	secret, err := agree()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "== messages")
	if _, err := wire.Messages.SendMessage(ctx, alice, demoRoom, "hi bob", nil); err != nil {
		return err
	}
	if _, err := wire.Messages.SendMessage(ctx, alice, demoRoom, "this one is encrypted", secret); err != nil {
		return err
	}
	if err := receive(ctx, out, bob.DisplayName, secret); err != nil {
		return err
	}
	if secret, err = step(secret); err != nil {
		return err
	}
	if _, err := wire.Messages.SendMessage(ctx, alice, demoRoom, "after a ratchet step", secret); err != nil {
		return err
	}
	if err := receive(ctx, out, bob.DisplayName, secret); err != nil {
		return err
	}

	fmt.Fprintln(out, "== documents")
	doc := domain.NewMemoryFile("report.txt", "text/plain", []byte("quarterly numbers: 42"))
	sig, err := wire.Documents.SignAsymmetric(ctx, doc, alice)
	if err != nil {
		return err
	}
	asym := domain.Asymmetric{Signature: sig}
	printVerdict(out, "ecdsa original", wire.Documents.Verify(ctx, doc, asym, nil))
	tampered := domain.NewMemoryFile("report.txt", "text/plain", []byte("quarterly numbers: 43"))
	printVerdict(out, "ecdsa tampered", wire.Documents.Verify(ctx, tampered, asym, nil))

	keyB64, err := wire.Symmetric.GenerateSessionKey()
	if err != nil {
		return err
	}
	mac, keyID, err := wire.Documents.SignSymmetric(ctx, doc)
	if err != nil {
		return err
	}
	key, err := hmacsign.ParseKey(keyB64)
	if err != nil {
		return err
	}
	ring := document.NewRing()
	ring.Add(key)
	sym := domain.Symmetric{KeyID: keyID, Signature: mac}
	printVerdict(out, "hmac original", wire.Documents.Verify(ctx, doc, sym, ring))
	printVerdict(out, "hmac tampered", wire.Documents.Verify(ctx, tampered, sym, ring))

	fmt.Fprintln(out, "== reset")
	if err := wire.Session.Reset(); err != nil {
		return err
	}
	printVerdict(out, "ecdsa after reset", wire.Documents.Verify(ctx, doc, asym, nil))

	if wire.Metrics != nil {
		snap, err := wire.Metrics.Snapshot()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "== metrics")
		names := make([]string, 0, len(snap))
		for n := range snap {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(out, "%s %g\n", n, snap[n])
		}
	}
	return nil
}

// agree runs an X25519 exchange and checks both sides derive the same secret.
func agree() ([]byte, error) {
	return exchange(func(priv domain.X25519Private, pub domain.X25519Public) ([]byte, error) {
		return ratchet.Agree(priv, pub)
	})
}

// step ratchets secret forward with a fresh ephemeral exchange.
func step(secret []byte) ([]byte, error) {
	return exchange(func(priv domain.X25519Private, pub domain.X25519Public) ([]byte, error) {
		return ratchet.RatchetKeys(secret, priv, pub)
	})
}

func exchange(derive func(domain.X25519Private, domain.X25519Public) ([]byte, error)) ([]byte, error) {
	aPriv, aPub, err := ratchet.GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	bPriv, bPub, err := ratchet.GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	s1, err := derive(aPriv, bPub)
	if err != nil {
		return nil, err
	}
	s2, err := derive(bPriv, aPub)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(s1, s2) {
		return nil, errors.New("x25519 agreement mismatch")
	}
	return s1, nil
}

func receive(ctx context.Context, out io.Writer, me domain.Username, secret []byte) error {
	got, err := wire.Messages.ReceiveMessages(ctx, me, demoRoom, secret, 0)
	if err != nil {
		return err
	}
	for _, rm := range got {
		printReceived(out, rm)
	}
	return nil
}

func printReceived(out io.Writer, rm domain.ReceivedMessage) {
	m := rm.Message
	if rm.Verdict.Valid {
		fmt.Fprintf(out, "[%d] %s: %q (encrypted=%t)\n", m.Index, m.From, rm.Plaintext, m.Encrypted != nil)
		return
	}
	fmt.Fprintf(out, "[%d] %s: rejected: %v\n", m.Index, m.From, rm.Verdict.Reason)
}

func printVerdict(out io.Writer, label string, v domain.Verdict) {
	if v.Valid {
		fmt.Fprintf(out, "%-18s valid\n", label)
		return
	}
	fmt.Fprintf(out, "%-18s invalid: %v\n", label, v.Reason)
}
