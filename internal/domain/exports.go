package domain

import (
	interfaces "certchat/internal/domain/interfaces"
	types "certchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username             = types.Username
	Fingerprint          = types.Fingerprint
	KeyID                = types.KeyID
	RoomID               = types.RoomID
	SigningKeyPair       = types.SigningKeyPair
	X25519Public         = types.X25519Public
	X25519Private        = types.X25519Private
	CertificateAuthority = types.CertificateAuthority
	Certificate          = types.Certificate
	DocumentSignature    = types.DocumentSignature
	SymmetricSignature   = types.SymmetricSignature
	SignatureScheme      = types.SignatureScheme
	Asymmetric           = types.Asymmetric
	Symmetric            = types.Symmetric
	EncryptedEnvelope    = types.EncryptedEnvelope
	File                 = types.File
	MemoryFile           = types.MemoryFile
	Identity             = types.Identity
	SignedMessage        = types.SignedMessage
	ReceivedMessage      = types.ReceivedMessage
	Verdict              = types.Verdict
)

// Algorithm tags.
const (
	AlgorithmECDSA = types.AlgorithmECDSA
	AlgorithmHMAC  = types.AlgorithmHMAC
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport       = interfaces.Transport
	KeyRing         = interfaces.KeyRing
	IdentityService = interfaces.IdentityService
	DocumentService = interfaces.DocumentService
	MessageService  = interfaces.MessageService
)

// Function re-exports used across packages.
var (
	NewMemoryFile = types.NewMemoryFile
	ReadAll       = types.ReadAll
	Accept        = types.Accept
	Reject        = types.Reject
)
