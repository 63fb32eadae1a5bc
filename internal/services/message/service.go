package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"certchat/internal/domain"
	"certchat/internal/metrics"
	"certchat/internal/protocol/ratchet"
	"certchat/internal/services/session"
	"certchat/internal/signer"
)

// verifyWorkers bounds concurrent verification in Receive.
const verifyWorkers = 4

// Service sends and receives signed messages.
//
// High-level flow:
//   - Send: sign the plaintext with the sender's leaf key, optionally encrypt
//     it, attach the sender's certificate and publish through the transport.
//   - Receive: fetch pending messages, open and verify them concurrently, then
//     ack everything fetched, accepted or not, so a forged message cannot stall
//     the queue.
type Service struct {
	session   *session.Session
	transport domain.Transport
	now       func() time.Time
	log       zerolog.Logger
	metrics   *metrics.Recorder
	static    bool
}

// Option configures a Service.
type Option func(*Service)

// WithStaticEncryption encrypts with the shared secret itself instead of a
// per-message derived key. Envelopes carry no salt and no index. Without this
// option unsalted envelopes are rejected with ErrMissingSalt.
func WithStaticEncryption() Option {
	return func(s *Service) { s.static = true }
}

// New constructs a message service.
func New(
	s *session.Session,
	transport domain.Transport,
	now func() time.Time,
	log zerolog.Logger,
	rec *metrics.Recorder,
	opts ...Option,
) *Service {
	if now == nil {
		now = time.Now
	}
	svc := &Service{
		session:   s,
		transport: transport,
		now:       now,
		log:       log.With().Str("component", "message").Logger(),
		metrics:   rec,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// SendMessage signs text as from and publishes it to room.
//
// The signature always covers the plaintext, so receivers verify after
// decrypting. A nil sharedSecret sends the text in the clear. Otherwise the
// text is encrypted under a key derived from sharedSecret, a fresh salt and
// the next session message index, or under sharedSecret directly when the
// service was built WithStaticEncryption.
func (s *Service) SendMessage(
	ctx context.Context,
	from domain.Identity,
	room domain.RoomID,
	text string,
	sharedSecret []byte,
) (domain.SignedMessage, error) {
	if !from.Keys.Valid() {
		return domain.SignedMessage{}, domain.ErrNoSigningKey
	}

	msg := domain.SignedMessage{
		ID:          uuid.NewString(),
		Room:        room,
		From:        from.DisplayName,
		Certificate: from.Certificate,
		SentAt:      s.now().UnixMilli(),
	}
	err := s.session.Use(func(c session.Components) error {
		sig, err := signer.SignData(text, from.Keys.Private)
		if err != nil {
			return err
		}
		msg.Signature = sig

		if sharedSecret == nil {
			msg.Content = text
			return nil
		}
		if s.static {
			env, err := ratchet.Seal(sharedSecret, text)
			if err != nil {
				return fmt.Errorf("encrypt: %w", err)
			}
			msg.Encrypted = &env
			return nil
		}
		env, index, err := c.Ratchet.Encrypt(text, sharedSecret)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		msg.Encrypted = &env
		msg.Index = index
		return nil
	})
	if err != nil {
		return domain.SignedMessage{}, err
	}
	s.metrics.Signed(domain.AlgorithmECDSA)

	if err := s.transport.Publish(ctx, msg); err != nil {
		return domain.SignedMessage{}, fmt.Errorf("publish: %w", err)
	}
	s.log.Debug().
		Str("id", msg.ID).
		Str("room", room.String()).
		Bool("encrypted", msg.Encrypted != nil).
		Uint64("index", msg.Index).
		Msg("message sent")
	return msg, nil
}

// ReceiveMessages fetches up to limit pending messages for me in room and
// returns each with its verdict, in delivery order.
//
// Steps, per message and at most verifyWorkers at a time:
//  1. Decrypt with sharedSecret when the message is encrypted. A missing
//     secret is ErrUnknownKey; a failed open is ErrWrongKey.
//  2. Check the certificate against the live session CA, including expiry.
//  3. Require the certificate's display name to match the claimed sender.
//  4. Check the signature over the plaintext with the certified key.
//
// Transport errors abort the call before anything is acked.
func (s *Service) ReceiveMessages(
	ctx context.Context,
	me domain.Username,
	room domain.RoomID,
	sharedSecret []byte,
	limit int,
) ([]domain.ReceivedMessage, error) {
	msgs, err := s.transport.Fetch(ctx, room, me, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	out := make([]domain.ReceivedMessage, len(msgs))
	err = s.session.Use(func(c session.Components) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(verifyWorkers)
		for i, m := range msgs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[i] = s.open(c, m, sharedSecret)
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	if err := s.transport.Ack(ctx, room, me, len(msgs)); err != nil {
		return nil, fmt.Errorf("ack: %w", err)
	}
	return out, nil
}

func (s *Service) open(c session.Components, m domain.SignedMessage, sharedSecret []byte) domain.ReceivedMessage {
	rm := domain.ReceivedMessage{Message: m}
	defer func() {
		s.metrics.Verified(metrics.KindMessage, rm.Verdict.Valid)
		if !rm.Verdict.Valid {
			s.log.Warn().Str("id", m.ID).Str("from", m.From.String()).Err(rm.Verdict.Reason).Msg("message rejected")
		}
	}()

	text := m.Content
	if m.Encrypted != nil {
		if sharedSecret == nil {
			rm.Verdict = domain.Reject(domain.ErrUnknownKey)
			return rm
		}
		pt, err := s.decrypt(*m.Encrypted, sharedSecret, m.Index)
		if errors.Is(err, domain.ErrMissingSalt) {
			rm.Verdict = domain.Reject(err)
			return rm
		}
		if err != nil {
			rm.Verdict = domain.Reject(fmt.Errorf("%w: %v", domain.ErrWrongKey, err))
			return rm
		}
		text = pt
	}

	if err := c.Certificates.CheckCertificate(m.Certificate); err != nil {
		rm.Verdict = domain.Reject(err)
		return rm
	}
	if m.Certificate.DisplayName() != m.From {
		rm.Verdict = domain.Reject(domain.ErrCertificateUntrusted)
		return rm
	}
	if err := signer.CheckSignature(text, m.Signature, m.Certificate.PublicKey); err != nil {
		rm.Verdict = domain.Reject(err)
		return rm
	}
	rm.Plaintext = text
	rm.Verdict = domain.Accept()
	return rm
}

// decrypt opens env. Unsalted envelopes are static ones and are only opened
// when the service itself sends static envelopes.
func (s *Service) decrypt(env domain.EncryptedEnvelope, sharedSecret []byte, index uint64) (string, error) {
	if env.HasSalt() {
		return ratchet.Decrypt(env, sharedSecret, index)
	}
	if !s.static {
		return "", domain.ErrMissingSalt
	}
	return ratchet.Open(sharedSecret, env)
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
